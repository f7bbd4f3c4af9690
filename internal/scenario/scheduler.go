// Package scenario sequences canned event injections to drive live demo
// walkthroughs. At most one scenario runs at a time; all step timing goes
// through the clock abstraction so runs are reproducible in tests.
package scenario

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/eventbus"
	"github.com/mediminder/pulse/internal/state"
)

// Step is one scheduled action within a scenario.
type Step struct {
	Delay       int    `json:"delay"` // seconds from scenario start
	Description string `json:"description"`

	action func()
}

// Scenario is a named sequence of steps with an auto-stop duration.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"` // seconds
	Steps       []Step `json:"steps"`
}

// Status reports whether a scenario is running and which one.
type Status struct {
	Active   bool   `json:"active"`
	Scenario string `json:"scenario,omitempty"`
}

// Scheduler owns the scenario catalog and the single active-scenario slot.
type Scheduler struct {
	bus    *eventbus.Bus
	states *state.Manager
	clk    clock.Clock
	logger *zap.Logger

	mu            sync.Mutex
	active        string
	startedStream bool
	timers        []clock.Timer

	scenarios []Scenario
}

// New creates a Scheduler with the built-in scenario catalog.
func New(bus *eventbus.Bus, states *state.Manager, clk clock.Clock, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		bus:    bus,
		states: states,
		clk:    clk,
		logger: logger,
	}
	s.scenarios = s.buildCatalog()
	return s
}

// StartScenario schedules every step of the named scenario plus its
// auto-stop. Returns false if a scenario is already active or the id is
// unknown.
func (s *Scheduler) StartScenario(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != "" {
		s.logger.Warn("scenario already running",
			zap.String("active", s.active),
			zap.String("requested", id))
		return false
	}

	var scenario *Scenario
	for i := range s.scenarios {
		if s.scenarios[i].ID == id {
			scenario = &s.scenarios[i]
			break
		}
	}
	if scenario == nil {
		s.logger.Error("unknown scenario", zap.String("id", id))
		return false
	}

	s.logger.Info("starting scenario", zap.String("id", id), zap.String("name", scenario.Name))
	s.active = id

	for _, step := range scenario.Steps {
		step := step
		t := s.clk.AfterFunc(time.Duration(step.Delay)*time.Second, func() {
			s.runStep(step)
		})
		s.timers = append(s.timers, t)
	}

	stop := s.clk.AfterFunc(time.Duration(scenario.Duration)*time.Second, func() {
		s.StopScenario()
		s.logger.Info("scenario completed", zap.String("id", id))
	})
	s.timers = append(s.timers, stop)

	return true
}

// StopScenario cancels all pending steps and the auto-stop, and stops the
// event stream if this scenario started it. No-op when nothing is active.
func (s *Scheduler) StopScenario() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		return
	}
	s.logger.Info("stopping scenario", zap.String("id", s.active))

	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil

	if s.startedStream {
		s.bus.Stop()
		s.startedStream = false
	}
	s.active = ""
}

// GetScenarios returns the scenario catalog.
func (s *Scheduler) GetScenarios() []Scenario {
	out := make([]Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

// GetStatus reports the active scenario, if any.
func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Active: s.active != "", Scenario: s.active}
}

// IsActive reports whether a scenario is currently running.
func (s *Scheduler) IsActive() bool {
	return s.GetStatus().Active
}

// runStep executes a step action, isolating panics so a failing step never
// cancels the rest of the scenario.
func (s *Scheduler) runStep(step Step) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scenario step failed",
				zap.String("step", step.Description),
				zap.Any("panic", r))
		}
	}()
	s.logger.Debug("executing scenario step", zap.String("step", step.Description))
	step.action()
}

// startScenarioStream starts the bus generation loop on behalf of the active
// scenario and records ownership so StopScenario knows to shut it down. A
// stream that was already running is left alone.
func (s *Scheduler) startScenarioStream() {
	if s.bus.IsActive() {
		return
	}
	s.bus.Start()
	s.mu.Lock()
	s.startedStream = true
	s.mu.Unlock()
	s.logger.Info("event stream started")
}

// startStream starts the bus generation loop without claiming ownership.
func (s *Scheduler) startStream() {
	if s.bus.IsActive() {
		return
	}
	s.bus.Start()
	s.logger.Info("event stream started")
}

func (s *Scheduler) stopStream() {
	if !s.bus.IsActive() {
		return
	}
	s.bus.Stop()
	s.mu.Lock()
	s.startedStream = false
	s.mu.Unlock()
	s.logger.Info("event stream stopped")
}

// Quick actions: ungated single-shot triggers usable with or without an
// active scenario.

// TriggerHighRiskAlert fires a high-severity risk event for the demo patient.
func (s *Scheduler) TriggerHighRiskAlert() {
	s.bus.TriggerPatientRiskEvent("demo_patient", eventbus.SeverityHigh)
}

// TriggerCriticalAlert fires a critical risk event for the demo patient.
func (s *Scheduler) TriggerCriticalAlert() {
	s.bus.TriggerPatientRiskEvent("demo_patient", eventbus.SeverityCritical)
}

// TriggerAIInsight fires a prediction insight event.
func (s *Scheduler) TriggerAIInsight() {
	s.bus.TriggerAIInsight(eventbus.CategoryPrediction)
}

// TriggerMedication fires a medication event for the demo patient. Defaults
// to missed for any value other than "taken".
func (s *Scheduler) TriggerMedication(kind string) {
	eventType := eventbus.TypeMedicationMissed
	if kind == "taken" {
		eventType = eventbus.TypeMedicationTaken
	}
	s.bus.TriggerMedicationEvent("demo_patient", eventType)
}

// StartBasicStream starts the bus generation loop outside any scenario.
func (s *Scheduler) StartBasicStream() { s.startStream() }

// StopBasicStream stops the bus generation loop.
func (s *Scheduler) StopBasicStream() { s.stopStream() }
