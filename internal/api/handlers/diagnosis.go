package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/report"
)

// maxBodyBytes caps a diagnose request body.
const maxBodyBytes = 1 << 20

// Diagnoser is the part of medex.Medex the HTTP layer needs.
type Diagnoser interface {
	Diagnose(ctx context.Context, req medex.DiagnoseRequest) (report.Report, error)
	Query(illness string) bool
	Symptoms() []string
	Illnesses() []catalog.Illness
	Rules() []string
}

type DiagnosisHandler struct {
	svc    Diagnoser
	logger *zap.Logger
}

func NewDiagnosisHandler(svc Diagnoser, logger *zap.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{svc: svc, logger: logger}
}

type diagnoseRequest struct {
	Symptoms []string `json:"symptoms"`
}

type illnessResponse struct {
	Name     string   `json:"name"`
	Symptoms []string `json:"symptoms"`
	Provable bool     `json:"provable,omitempty"`
}

// Diagnose handles POST /v1/diagnose. ?format=html renders the report as HTML.
func (h *DiagnosisHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req diagnoseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, s := range req.Symptoms {
		if s == "" {
			writeError(w, http.StatusBadRequest, "symptom names must be non-empty")
			return
		}
	}

	rep, err := h.svc.Diagnose(r.Context(), medex.DiagnoseRequest{Symptoms: req.Symptoms})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request canceled")
			return
		}
		h.logger.Error("diagnosis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "diagnosis failed")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.RenderHTML(w, rep); err != nil {
			h.logger.Warn("html render failed", zap.Error(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Symptoms handles GET /v1/symptoms.
func (h *DiagnosisHandler) Symptoms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"symptoms": nonNil(h.svc.Symptoms())})
}

// Illnesses handles GET /v1/illnesses.
func (h *DiagnosisHandler) Illnesses(w http.ResponseWriter, r *http.Request) {
	ills := h.svc.Illnesses()
	out := make([]illnessResponse, len(ills))
	for i, ill := range ills {
		out[i] = illnessResponse{Name: ill.Name, Symptoms: ill.Symptoms}
	}
	writeJSON(w, http.StatusOK, map[string][]illnessResponse{"illnesses": out})
}

// Illness handles GET /v1/illnesses/{name}.
func (h *DiagnosisHandler) Illness(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, ill := range h.svc.Illnesses() {
		if ill.Name == name {
			writeJSON(w, http.StatusOK, illnessResponse{
				Name:     ill.Name,
				Symptoms: ill.Symptoms,
				Provable: h.svc.Query(ill.Name),
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "illness not found")
}

// Rules handles GET /v1/rules.
func (h *DiagnosisHandler) Rules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rules": nonNil(h.svc.Rules())})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
