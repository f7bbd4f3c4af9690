package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/api/middleware"
	"github.com/mediminder/pulse/internal/state"
)

// streamBuffer bounds how many snapshots a slow SSE client can fall behind
// before updates are dropped for it.
const streamBuffer = 16

// StateHandler serves state snapshots and state mutators.
type StateHandler struct {
	states *state.Manager
	logger *zap.Logger
}

// NewStateHandler creates a new handler
func NewStateHandler(states *state.Manager, logger *zap.Logger) *StateHandler {
	return &StateHandler{states: states, logger: logger}
}

// Register attaches the handler routes to the given router. The routes span
// several top-level prefixes, so they attach in place rather than under a
// single mount point.
func (h *StateHandler) Register(r chi.Router) {
	r.Get("/state", h.GetState)
	r.Get("/state/stream", h.Stream)
	r.Post("/alerts/{id}/acknowledge", h.AcknowledgeAlert)
	r.Post("/notifications/{id}/read", h.MarkNotificationRead)
	r.Post("/notifications/clear", h.ClearNotifications)
	r.Post("/actions/{id}/status", h.UpdateActionStatus)
	r.Post("/demo/{name}", h.TriggerDemo)
}

// GetState handles GET /state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.states.GetState())
}

// Stream handles GET /state/stream. It sends the current snapshot
// immediately, then one SSE event per state change until the client
// disconnects. Clients that stop reading get updates dropped rather than
// blocking the fold path.
func (h *StateHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	snapshots := make(chan state.AppState, streamBuffer)
	unsubscribe := h.states.Subscribe(func(s state.AppState) {
		select {
		case snapshots <- s:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.logger.Debug("state stream opened",
		zap.String("request_id", middleware.GetRequestID(r.Context())))

	send := func(s state.AppState) bool {
		payload, err := json.Marshal(s)
		if err != nil {
			h.logger.Error("snapshot marshal failed", zap.Error(err))
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(h.states.GetState()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case s := <-snapshots:
			if !send(s) {
				return
			}
		}
	}
}

// AcknowledgeAlert handles POST /alerts/{id}/acknowledge
func (h *StateHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	h.states.AcknowledgeRiskAlert(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// MarkNotificationRead handles POST /notifications/{id}/read
func (h *StateHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	h.states.MarkNotificationAsRead(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotifications handles POST /notifications/clear
func (h *StateHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.states.ClearAllNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// UpdateActionStatus handles POST /actions/{id}/status
func (h *StateHandler) UpdateActionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status state.ActionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case state.StatusPending, state.StatusInProgress, state.StatusCompleted, state.StatusOverdue:
	default:
		jsonError(w, "invalid status", http.StatusBadRequest)
		return
	}
	h.states.UpdateCareActionStatus(chi.URLParam(r, "id"), req.Status)
	w.WriteHeader(http.StatusNoContent)
}

// TriggerDemo handles POST /demo/{name}
func (h *StateHandler) TriggerDemo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.states.TriggerDemoScenario(name) {
		jsonError(w, "unknown demo scenario", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"scenario": name})
}
