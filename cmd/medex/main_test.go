package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/report"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MEDEX_ENV", filepath.Join(t.TempDir(), "none.env"))
	for _, k := range []string{"MEDEX_CATALOG", "MEDEX_RULES", "MEDEX_DB", "MEDEX_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "medex v")
}

func TestDiagnoseText(t *testing.T) {
	out, err := run(t, "", "diagnose", "--symptom", "Fever", "-s", "Cough")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: CommonCold")
	assert.Contains(t, out, "almost Flu (missing Headache)")
}

func TestDiagnoseNoMatch(t *testing.T) {
	out, err := run(t, "", "diagnose")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching illness found.")
}

func TestDiagnoseJSON(t *testing.T) {
	out, err := run(t, "", "diagnose", "RunnyNose", "--format", "json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []string{"Allergies"}, rep.Illnesses)
}

func TestDiagnoseHTML(t *testing.T) {
	out, err := run(t, "", "diagnose", "RunnyNose", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="medex-report"`)
}

func TestDiagnoseBadFormat(t *testing.T) {
	_, err := run(t, "", "diagnose", "Fever", "--format", "xml")
	assert.Error(t, err)
}

func TestDiagnoseWithRulesFile(t *testing.T) {
	out, err := run(t, "", "diagnose", "Fever", "Cough", "--rules", "../../testdata/rules.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "CommonCold")
}

func TestSymptoms(t *testing.T) {
	out, err := run(t, "", "symptoms")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Fever")
}

func TestRulesCheck(t *testing.T) {
	out, err := run(t, "", "rules", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "17 illnesses, 19 symptoms, 19 rules: ok")
	assert.Contains(t, out, "Bronchitis requires symptoms outside the checklist: Wheezing")
}

func TestRulesList(t *testing.T) {
	out, err := run(t, "", "rules", "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)\n"))
}

func TestImportThenDiagnoseFromDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "medex.db")

	_, err := run(t, "", "import")
	assert.Error(t, err, "import without --db")

	out, err := run(t, "", "import", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 17 illnesses, 19 rules")

	out, err = run(t, "", "diagnose", "--db", db, "Fever", "Cough", "Headache")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: CommonCold, Flu")
}

func TestDiagnoseFromEmptyDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	_, err := run(t, "", "diagnose", "--db", db, "Fever")
	assert.Error(t, err)
}

func TestReplSession(t *testing.T) {
	out, err := run(t, "1 2 Headache\n99\nlist\nquit\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: CommonCold, Flu")
	assert.Contains(t, out, "Error: no symptom numbered 99")
	assert.Contains(t, out, "Goodbye!")
}

func TestParseSelection(t *testing.T) {
	m, err := medex.New(medex.Options{})
	require.NoError(t, err)
	checklist := m.Symptoms()

	got, err := parseSelection("1,2  Wheezing", checklist)
	require.NoError(t, err)
	assert.Equal(t, []string{checklist[0], checklist[1], "Wheezing"}, got)

	_, err = parseSelection("0", checklist)
	assert.Error(t, err)
}

func TestDiagnoseNormalizesNames(t *testing.T) {
	out, err := run(t, "", "diagnose", "fever", "COUGH", "head pain", "--lexicon", "../../testdata/lexicon.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: CommonCold, Flu")

	out, err = run(t, "", "diagnose", "--exact", "fever", "cough")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching illness found.")
	assert.Contains(t, out, "unknown symptoms: fever, cough")
}

func TestReplNormalizesNames(t *testing.T) {
	out, err := run(t, "runnynose\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: Allergies")
}

func TestRulesExportThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exported.txt")

	out, err := run(t, "", "rules", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 19 rules")

	out, err = run(t, "", "diagnose", "--rules", path, "RunnyNose")
	require.NoError(t, err)
	assert.Contains(t, out, "Possible illnesses: Allergies")
}
