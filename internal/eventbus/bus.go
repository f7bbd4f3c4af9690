package eventbus

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
)

// Handler receives emitted events. A handler that panics is isolated: the
// panic is logged and the remaining handlers still run.
type Handler func(Event)

// Config holds Bus configuration.
type Config struct {
	// MinInterval and MaxInterval bound the randomized delay between
	// auto-generated events. Each tick draws uniformly from [Min, Max).
	MinInterval time.Duration
	MaxInterval time.Duration
}

// DefaultConfig returns the demo generation cadence.
func DefaultConfig() Config {
	return Config{
		MinInterval: 3 * time.Second,
		MaxInterval: 8 * time.Second,
	}
}

// Bus is the in-process event stream. All methods are safe for concurrent use.
type Bus struct {
	cfg    Config
	clk    clock.Clock
	rng    *rand.Rand
	logger *zap.Logger

	mu      sync.Mutex
	subs    map[Type]map[int]Handler
	nextSub int
	running bool
	timer   clock.Timer
}

// New creates a Bus. The random source drives severity and payload draws;
// pass a seeded source for deterministic tests.
func New(cfg Config, clk clock.Clock, rng *rand.Rand, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultConfig().MinInterval
	}
	if cfg.MaxInterval <= cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval + DefaultConfig().MaxInterval - DefaultConfig().MinInterval
	}
	return &Bus{
		cfg:    cfg,
		clk:    clk,
		rng:    rng,
		logger: logger,
		subs:   make(map[Type]map[int]Handler),
	}
}

// Subscribe registers a handler for the given event type (or TypeAll) and
// returns a function that removes the subscription.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[t] == nil {
		b.subs[t] = make(map[int]Handler)
	}
	b.nextSub++
	id := b.nextSub
	b.subs[t][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[t], id)
	}
}

// Start begins timer-driven event generation. Calling Start while already
// running is a no-op.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.running = true
	b.scheduleNextLocked()
	b.logger.Info("event stream started",
		zap.Duration("min_interval", b.cfg.MinInterval),
		zap.Duration("max_interval", b.cfg.MaxInterval))
}

// Stop cancels event generation. Idempotent.
func (b *Bus) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return
	}
	b.running = false
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.logger.Info("event stream stopped")
}

// IsActive reports whether timer-driven generation is running.
func (b *Bus) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// scheduleNextLocked arms the next generation tick. Callers hold b.mu.
func (b *Bus) scheduleNextLocked() {
	jitter := time.Duration(b.rng.Int63n(int64(b.cfg.MaxInterval - b.cfg.MinInterval)))
	b.timer = b.clk.AfterFunc(b.cfg.MinInterval+jitter, b.tick)
}

func (b *Bus) tick() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	event := b.randomEvent()
	b.scheduleNextLocked()
	b.mu.Unlock()

	b.Emit(event)
}

// Emit dispatches an event to its type subscribers and to TypeAll subscribers.
// Each handler runs isolated: a panic is recovered and logged without
// affecting the others.
func (b *Bus) Emit(event Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[event.Type])+len(b.subs[TypeAll]))
	for _, h := range b.subs[event.Type] {
		handlers = append(handlers, h)
	}
	for _, h := range b.subs[TypeAll] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.dispatch(event, h)
	}
}

func (b *Bus) dispatch(event Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()
	h(event)
}

// TriggerPatientRiskEvent emits a patient_risk_change event for the given
// patient, bypassing the generation timer. Works whether or not the stream
// is running.
func (b *Bus) TriggerPatientRiskEvent(patientID string, severity Severity) {
	b.mu.Lock()
	event := b.newPatientRiskEvent(severity)
	b.mu.Unlock()
	event.Data.(*PatientRiskData).PatientID = patientID
	b.Emit(event)
}

// TriggerAIInsight emits an ai_insight_generated event in the given category.
func (b *Bus) TriggerAIInsight(category InsightCategory) {
	b.mu.Lock()
	event := b.newInsightEvent(SeverityMedium)
	b.mu.Unlock()
	event.Data.(*AIInsightData).Category = category
	b.Emit(event)
}

// TriggerMedicationEvent emits a medication event of the given type
// (medication_missed or medication_taken) for the given patient.
func (b *Bus) TriggerMedicationEvent(patientID string, eventType Type) {
	severity := SeverityLow
	if eventType == TypeMedicationMissed {
		severity = SeverityMedium
	}
	b.mu.Lock()
	event := b.newMedicationEvent(eventType, severity)
	b.mu.Unlock()
	event.Data.(*MedicationData).PatientID = patientID
	b.Emit(event)
}
