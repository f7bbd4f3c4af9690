package scenario

import (
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/dataset"
	"github.com/mediminder/pulse/internal/eventbus"
	"github.com/mediminder/pulse/internal/state"
)

type noScores struct{}

func (noScores) AverageRiskScore() int { return 0 }

// newTestScheduler uses hour-long generation intervals so advancing the fake
// clock through scenario steps never fires the random generator.
func newTestScheduler(t *testing.T) (*Scheduler, *state.Manager, *eventbus.Bus, *clock.Fake) {
	t.Helper()
	store := dataset.Generate(dataset.GenerateConfig{Hospitals: 2, Doctors: 5, Patients: 40, Seed: 5})
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	bus := eventbus.New(eventbus.Config{
		MinInterval: time.Hour,
		MaxInterval: 2 * time.Hour,
	}, clk, rand.New(rand.NewSource(5)), zap.NewNop())
	states := state.New(store, noScores{}, bus, clk, rand.New(rand.NewSource(5)), zap.NewNop())
	t.Cleanup(states.Close)
	return New(bus, states, clk, zap.NewNop()), states, bus, clk
}

func TestStartUnknownScenario(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	if s.StartScenario("no_such_demo") {
		t.Fatal("unknown scenario accepted")
	}
	if s.IsActive() {
		t.Fatal("scheduler active after rejected start")
	}
}

func TestScenarioExclusivity(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	if !s.StartScenario("ai_insights") {
		t.Fatal("first start rejected")
	}
	if s.StartScenario("patient_crisis") {
		t.Fatal("second start accepted while a scenario is active")
	}
	status := s.GetStatus()
	if !status.Active || status.Scenario != "ai_insights" {
		t.Fatalf("status = %+v", status)
	}
}

func TestScenarioStepsFireOnSchedule(t *testing.T) {
	s, states, bus, clk := newTestScheduler(t)
	if !s.StartScenario("ai_insights") {
		t.Fatal("start rejected")
	}

	clk.Advance(0)
	if !bus.IsActive() {
		t.Fatal("step 0 did not start the event stream")
	}
	if got := len(states.GetState().AIInsights); got != 1 {
		t.Fatalf("insights after step 0 = %d, want 1", got)
	}

	clk.Advance(10 * time.Second)
	if got := len(states.GetState().AIInsights); got != 2 {
		t.Fatalf("insights at t=10 = %d, want 2", got)
	}

	clk.Advance(10 * time.Second)
	if got := len(states.GetState().RiskAlerts); got != 1 {
		t.Fatalf("risk alerts at t=20 = %d, want 1", got)
	}
	if id := states.GetState().RiskAlerts[0].PatientID; id != "patient10" {
		t.Fatalf("alert patient = %s, want patient10", id)
	}

	clk.Advance(10 * time.Second)
	if got := len(states.GetState().AIInsights); got != 3 {
		t.Fatalf("insights at t=30 = %d, want 3", got)
	}
}

func TestScenarioAutoStops(t *testing.T) {
	s, _, bus, clk := newTestScheduler(t)
	s.StartScenario("ai_insights")

	clk.Advance(45 * time.Second)
	if s.IsActive() {
		t.Fatal("scenario still active past its duration")
	}
	if bus.IsActive() {
		t.Fatal("auto-stop left the event stream running")
	}
}

func TestStopCancelsPendingSteps(t *testing.T) {
	s, states, bus, clk := newTestScheduler(t)
	s.StartScenario("patient_crisis")

	clk.Advance(0)
	if got := len(states.GetState().RiskAlerts); got != 1 {
		t.Fatalf("alerts after step 0 = %d, want 1", got)
	}

	s.StopScenario()
	if bus.IsActive() {
		t.Fatal("stop did not halt the stream it started")
	}
	before := states.GetState()

	clk.Advance(5 * time.Minute)
	after := states.GetState()
	if len(after.RiskAlerts) != len(before.RiskAlerts) ||
		len(after.PatientUpdates) != len(before.PatientUpdates) ||
		len(after.AIInsights) != len(before.AIInsights) {
		t.Fatal("cancelled steps still mutated state")
	}
	if s.IsActive() {
		t.Fatal("scheduler active after stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	s.StopScenario()
	s.StopScenario()
	if s.IsActive() {
		t.Fatal("scheduler active after no-op stops")
	}
}

func TestStopLeavesForeignStreamRunning(t *testing.T) {
	s, _, bus, clk := newTestScheduler(t)

	// Stream started outside the scenario is not the scheduler's to stop.
	s.StartBasicStream()
	s.StartScenario("ai_insights")
	clk.Advance(0)
	s.StopScenario()

	if !bus.IsActive() {
		t.Fatal("stop halted a stream the scenario did not start")
	}
}

func TestQuickActionsWorkWithoutScenario(t *testing.T) {
	s, states, _, _ := newTestScheduler(t)

	s.TriggerCriticalAlert()
	alerts := states.GetState().RiskAlerts
	if len(alerts) != 1 || alerts[0].PatientID != "demo_patient" {
		t.Fatalf("alerts = %+v", alerts)
	}
	if alerts[0].RiskLevel != "Critical" {
		t.Fatalf("risk level = %s, want Critical", alerts[0].RiskLevel)
	}

	s.TriggerMedication("missed")
	updates := states.GetState().PatientUpdates
	if len(updates) != 1 || !updates[0].RequiresAction {
		t.Fatalf("updates = %+v", updates)
	}

	s.TriggerAIInsight()
	if got := len(states.GetState().AIInsights); got != 1 {
		t.Fatalf("insights = %d, want 1", got)
	}
}

func TestStepPanicIsolated(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	// Must not escape.
	s.runStep(Step{Description: "boom", action: func() { panic("step failure") }})
}

func TestGetScenariosCatalog(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	scenarios := s.GetScenarios()
	if len(scenarios) != 3 {
		t.Fatalf("catalog size = %d, want 3", len(scenarios))
	}
	want := map[string]int{"hackathon_showcase": 120, "patient_crisis": 60, "ai_insights": 45}
	for _, sc := range scenarios {
		if d, ok := want[sc.ID]; !ok || sc.Duration != d {
			t.Errorf("scenario %s duration = %d, want %d", sc.ID, sc.Duration, d)
		}
		if len(sc.Steps) == 0 {
			t.Errorf("scenario %s has no steps", sc.ID)
		}
	}
}
