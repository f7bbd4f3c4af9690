package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/scenario"
)

// ScenarioHandler serves scenario control and quick-action triggers.
type ScenarioHandler struct {
	sched  *scenario.Scheduler
	logger *zap.Logger
}

// NewScenarioHandler creates a new handler
func NewScenarioHandler(sched *scenario.Scheduler, logger *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{sched: sched, logger: logger}
}

// Routes returns the scenario control routes
func (h *ScenarioHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/status", h.Status)
	r.Post("/{id}/start", h.Start)
	r.Post("/stop", h.Stop)
	return r
}

// SimulateRoutes returns the quick-action trigger routes
func (h *ScenarioHandler) SimulateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/risk", h.SimulateRisk)
	r.Post("/insight", h.SimulateInsight)
	r.Post("/medication", h.SimulateMedication)
	return r
}

// StreamRoutes returns the event stream control routes
func (h *ScenarioHandler) StreamRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/start", h.StartStream)
	r.Post("/stop", h.StopStream)
	return r
}

// List handles GET /scenarios
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.GetScenarios())
}

// Status handles GET /scenarios/status
func (h *ScenarioHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.GetStatus())
}

// Start handles POST /scenarios/{id}/start
func (h *ScenarioHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sched.StartScenario(id) {
		jsonError(w, "scenario unknown or another scenario is active", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, h.sched.GetStatus())
}

// Stop handles POST /scenarios/stop
func (h *ScenarioHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.sched.StopScenario()
	w.WriteHeader(http.StatusNoContent)
}

// SimulateRisk handles POST /simulate/risk. An optional body selects the
// severity; the default is high.
func (h *ScenarioHandler) SimulateRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	switch req.Level {
	case "critical":
		h.sched.TriggerCriticalAlert()
	case "", "high":
		h.sched.TriggerHighRiskAlert()
	default:
		jsonError(w, "level must be high or critical", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// SimulateInsight handles POST /simulate/insight
func (h *ScenarioHandler) SimulateInsight(w http.ResponseWriter, r *http.Request) {
	h.sched.TriggerAIInsight()
	w.WriteHeader(http.StatusAccepted)
}

// SimulateMedication handles POST /simulate/medication. An optional body
// selects missed or taken; the default is missed.
func (h *ScenarioHandler) SimulateMedication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	switch req.Kind {
	case "", "missed", "taken":
	default:
		jsonError(w, "kind must be missed or taken", http.StatusBadRequest)
		return
	}
	h.sched.TriggerMedication(req.Kind)
	w.WriteHeader(http.StatusAccepted)
}

// StartStream handles POST /stream/start
func (h *ScenarioHandler) StartStream(w http.ResponseWriter, r *http.Request) {
	h.sched.StartBasicStream()
	w.WriteHeader(http.StatusAccepted)
}

// StopStream handles POST /stream/stop
func (h *ScenarioHandler) StopStream(w http.ResponseWriter, r *http.Request) {
	h.sched.StopBasicStream()
	w.WriteHeader(http.StatusNoContent)
}
