package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/report"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	m, err := medex.New(medex.Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(m, nil, Config{}))
	t.Cleanup(srv.Close)
	return srv
}

func postDiagnose(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/diagnose", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(17), body["illnesses"])
}

func TestDiagnoseJSON(t *testing.T) {
	srv := newTestServer(t)
	resp := postDiagnose(t, srv, `{"symptoms": ["Fever", "Cough", "Headache"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, []string{"CommonCold", "Flu"}, rep.Illnesses)
	assert.Equal(t, "Possible illnesses: CommonCold, Flu", rep.Message)
	assert.False(t, rep.GeneratedAt.IsZero())
}

func TestDiagnoseNoMatch(t *testing.T) {
	srv := newTestServer(t)
	resp := postDiagnose(t, srv, `{"symptoms": []}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{}, body["illnesses"])
	assert.Equal(t, "No matching illness found.", body["message"])
}

func TestDiagnoseHTML(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/diagnose?format=html", "application/json",
		strings.NewReader(`{"symptoms": ["RunnyNose"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestDiagnoseBadRequests(t *testing.T) {
	srv := newTestServer(t)
	for name, body := range map[string]string{
		"not json":      `symptoms=Fever`,
		"wrong type":    `{"symptoms": "Fever"}`,
		"unknown field": `{"symptom": ["Fever"]}`,
		"empty name":    `{"symptoms": ["Fever", ""]}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := postDiagnose(t, srv, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e["error"])
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	get := func(path string, v any) int {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		if v != nil {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
		}
		return resp.StatusCode
	}

	var syms map[string][]string
	assert.Equal(t, http.StatusOK, get("/v1/symptoms", &syms))
	assert.Equal(t, catalog.Default().Symptoms, syms["symptoms"])

	var rules map[string][]string
	assert.Equal(t, http.StatusOK, get("/v1/rules", &rules))
	assert.Len(t, rules["rules"], 19)

	var ills map[string][]map[string]any
	assert.Equal(t, http.StatusOK, get("/v1/illnesses", &ills))
	assert.Len(t, ills["illnesses"], 17)

	var one map[string]any
	assert.Equal(t, http.StatusOK, get("/v1/illnesses/Migraine", &one))
	assert.Equal(t, "Migraine", one["name"])
	assert.Equal(t, true, one["provable"])

	assert.Equal(t, http.StatusNotFound, get("/v1/illnesses/Scurvy", nil))
}

type panicky struct{ *medex.Medex }

func (panicky) Diagnose(context.Context, medex.DiagnoseRequest) (report.Report, error) {
	panic("boom")
}
func (panicky) Illnesses() []catalog.Illness { return nil }

func TestRecoverer(t *testing.T) {
	srv := httptest.NewServer(NewRouter(panicky{}, nil, Config{}))
	defer srv.Close()

	resp := postDiagnose(t, srv, `{"symptoms": ["Fever"]}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRateLimited(t *testing.T) {
	m, err := medex.New(medex.Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(m, nil, Config{RateLimitRPS: 0.001, RateLimitBurst: 1}))
	defer srv.Close()

	first, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
