package medex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/internalerr"
	"github.com/cognicore/medex/pkg/medex/store/memstore"
)

func TestDiagnoseReport(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	defer m.Close()

	r, err := m.Diagnose(context.Background(), DiagnoseRequest{Symptoms: []string{"Fever", "Cough"}})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Contains(t, r.Illnesses, "CommonCold")
	assert.NotContains(t, r.Illnesses, "Flu")
	assert.Equal(t, []string{"Fever", "Cough"}, r.Observed)
	assert.Contains(t, r.Message, "Possible illnesses: CommonCold")
}

func TestDiagnoseNoMatch(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)

	r, err := m.Diagnose(context.Background(), DiagnoseRequest{})
	require.NoError(t, err)
	assert.Empty(t, r.Illnesses)
	assert.Equal(t, "No matching illness found.", r.Message)
}

func TestCatalogAccessors(t *testing.T) {
	m, err := New(Options{Parallelism: 4})
	require.NoError(t, err)

	def := catalog.Default()
	assert.Equal(t, def.Symptoms, m.Symptoms())
	assert.Len(t, m.Illnesses(), len(def.Illnesses))

	rules := m.Rules()
	require.Len(t, rules, len(def.Rules))
	assert.Equal(t, "CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)", rules[0])

	assert.True(t, m.Query("Asthma"))
	assert.False(t, m.Query("Scurvy"))
}

func TestNewRejectsBadCatalog(t *testing.T) {
	cat := catalog.Default()
	cat.Rules = []string{"Flu(Fever) =>"}
	_, err := New(Options{Catalog: cat})
	assert.True(t, errors.Is(err, internalerr.ErrMalformedRule))

	_, err = New(Options{StrictRangeRestriction: true})
	assert.True(t, errors.Is(err, internalerr.ErrMalformedRule))
}

func TestNewFromStore(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	_, err := NewFromStore(ctx, st, Options{})
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))

	cat := &catalog.Catalog{
		Symptoms:  []string{"Itch"},
		Illnesses: []catalog.Illness{{Name: "Hives", Symptoms: []string{"Itch"}}},
		Rules:     []string{"Hives(Itch) ==> Hives(x)"},
	}
	require.NoError(t, st.SaveCatalog(ctx, cat))

	m, err := NewFromStore(ctx, st, Options{Catalog: catalog.Default()})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []string{"Itch"}, m.Symptoms())
	r, err := m.Diagnose(ctx, DiagnoseRequest{Symptoms: []string{"Itch"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hives"}, r.Illnesses)
}
