package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/dataset"
	"github.com/mediminder/pulse/internal/eventbus"
	"github.com/mediminder/pulse/internal/riskengine"
	"github.com/mediminder/pulse/internal/scenario"
	"github.com/mediminder/pulse/internal/state"
)

type testEnv struct {
	router chi.Router
	store  *dataset.Store
	states *state.Manager
	engine *riskengine.Engine
	sched  *scenario.Scheduler
	clk    *clock.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := dataset.Generate(dataset.GenerateConfig{Hospitals: 2, Doctors: 5, Patients: 40, Seed: 9})
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	logger := zap.NewNop()

	bus := eventbus.New(eventbus.Config{MinInterval: time.Hour, MaxInterval: 2 * time.Hour}, clk, rand.New(rand.NewSource(9)), logger)
	engine := riskengine.New(store, clk, rand.New(rand.NewSource(9)), logger)
	states := state.New(store, engine, bus, clk, rand.New(rand.NewSource(9)), logger)
	t.Cleanup(states.Close)
	sched := scenario.New(bus, states, clk, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(api chi.Router) {
		NewStateHandler(states, logger).Register(api)
		api.Mount("/risk", NewRiskHandler(engine, logger).Routes())
		scenarioHandler := NewScenarioHandler(sched, logger)
		api.Mount("/scenarios", scenarioHandler.Routes())
		api.Mount("/simulate", scenarioHandler.SimulateRoutes())
		api.Mount("/stream", scenarioHandler.StreamRoutes())
	})

	return &testEnv{router: r, store: store, states: states, engine: engine, sched: sched, clk: clk}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGetState(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got state.AppState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.SystemMetrics.TotalPatients != 40 {
		t.Errorf("totalPatients = %d, want 40", got.SystemMetrics.TotalPatients)
	}
	if len(got.CareActions) != 3 {
		t.Errorf("seed care actions = %d, want 3", len(got.CareActions))
	}
}

func TestAcknowledgeAlertEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.sched.TriggerCriticalAlert()
	alertID := env.states.GetState().RiskAlerts[0].ID

	rec := env.do(t, http.MethodPost, "/api/v1/alerts/"+alertID+"/acknowledge", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if !env.states.GetState().RiskAlerts[0].Acknowledged {
		t.Fatal("alert not acknowledged")
	}
}

func TestUpdateActionStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	actionID := env.states.GetState().CareActions[0].ID

	rec := env.do(t, http.MethodPost, "/api/v1/actions/"+actionID+"/status", `{"status":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status accepted: %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/actions/"+actionID+"/status", `{"status":"completed"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.states.GetState().CareActions[0].Status != state.StatusCompleted {
		t.Fatal("status not applied")
	}
}

func TestRiskAssessmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	patientID := env.store.Patients()[0].ID

	rec := env.do(t, http.MethodGet, "/api/v1/risk/assessments/"+patientID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("uncached GET status = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/risk/assessments/"+patientID, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d", rec.Code)
	}
	var created riskengine.RiskAssessment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.PatientID != patientID {
		t.Errorf("patient_id = %s", created.PatientID)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/risk/assessments/"+patientID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cached GET status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/risk/assessments/unknown-patient", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown patient status = %d, want 404", rec.Code)
	}
}

func TestPopulationInsightsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/risk/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var insights []riskengine.PopulationInsight
	if err := json.Unmarshal(rec.Body.Bytes(), &insights); err != nil {
		t.Fatal(err)
	}
	if len(insights) != 3 {
		t.Fatalf("insights = %d, want 3", len(insights))
	}
}

func TestScenarioEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/scenarios/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/scenarios/ai_insights/start", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/scenarios/patient_crisis/start", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/scenarios/status", "")
	var status scenario.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.Active || status.Scenario != "ai_insights" {
		t.Fatalf("status = %+v", status)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/scenarios/stop", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("stop status = %d", rec.Code)
	}
	if env.sched.IsActive() {
		t.Fatal("scenario still active after stop")
	}
}

func TestSimulateEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/simulate/risk", `{"level":"critical"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("simulate risk status = %d", rec.Code)
	}
	alerts := env.states.GetState().RiskAlerts
	if len(alerts) != 1 || alerts[0].RiskLevel != "Critical" {
		t.Fatalf("alerts = %+v", alerts)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/simulate/risk", `{"level":"extreme"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad level status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/simulate/medication", `{"kind":"taken"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("simulate medication status = %d", rec.Code)
	}
	updates := env.states.GetState().PatientUpdates
	if len(updates) != 1 || updates[0].RequiresAction {
		t.Fatalf("updates = %+v", updates)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/simulate/insight", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("simulate insight status = %d", rec.Code)
	}
}

func TestDemoEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/demo/high_risk_patient", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(env.states.GetState().RiskAlerts) != 1 {
		t.Fatal("demo scenario produced no alert")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/demo/not_a_scenario", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown demo status = %d, want 404", rec.Code)
	}
}
