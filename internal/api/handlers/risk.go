package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/riskengine"
)

// RiskHandler serves risk assessments and population insights.
type RiskHandler struct {
	engine *riskengine.Engine
	logger *zap.Logger
}

// NewRiskHandler creates a new handler
func NewRiskHandler(engine *riskengine.Engine, logger *zap.Logger) *RiskHandler {
	return &RiskHandler{engine: engine, logger: logger}
}

// Routes returns the handler routes
func (h *RiskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/assessments", h.ListAssessments)
	r.Get("/assessments/{patientID}", h.GetAssessment)
	r.Post("/assessments/{patientID}", h.GenerateAssessment)
	r.Get("/high", h.HighRisk)
	r.Get("/insights", h.PopulationInsights)
	return r
}

// ListAssessments handles GET /assessments
func (h *RiskHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetAllRiskAssessments())
}

// GetAssessment handles GET /assessments/{patientID}. Returns only cached
// results; use POST to compute one.
func (h *RiskHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	assessment := h.engine.GetRiskAssessment(id)
	if assessment == nil {
		jsonError(w, "no cached assessment for patient", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// GenerateAssessment handles POST /assessments/{patientID}
func (h *RiskHandler) GenerateAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	assessment, err := h.engine.GenerateRiskAssessment(id)
	if err != nil {
		if errors.Is(err, riskengine.ErrPatientNotFound) {
			jsonError(w, "patient not found", http.StatusNotFound)
			return
		}
		h.logger.Error("assessment generation failed", zap.String("patient_id", id), zap.Error(err))
		jsonError(w, "failed to generate assessment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, assessment)
}

// HighRisk handles GET /high
func (h *RiskHandler) HighRisk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetHighRiskPatients())
}

// PopulationInsights handles GET /insights
func (h *RiskHandler) PopulationInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetPopulationInsights())
}
