// Package circuitbreaker provides a thin wrapper around sony/gobreaker used
// to isolate persistently failing state listeners from the rest of the
// notification fan-out.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// State represents the circuit breaker state.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Config holds circuit breaker configuration.
type Config struct {
	// Name identifies the circuit breaker in logs.
	Name string
	// MaxRequests is max probe calls allowed in half-open state.
	MaxRequests uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold uint32
}

// DefaultConfig returns defaults suitable for in-process listener callbacks:
// a listener that panics three times in a row is skipped for ten seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Timeout:          10 * time.Second,
		FailureThreshold: 3,
	}
}

// Breaker wraps gobreaker with state-change logging.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

// New creates a circuit breaker.
func New(cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Breaker{name: cfg.Name, logger: logger}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", string(mapState(from))),
				zap.String("to", string(mapState(to))))
		},
	}
	b.cb = gobreaker.NewCircuitBreaker(settings)
	return b
}

// Execute runs fn through the breaker. When the circuit is open the call is
// rejected with gobreaker.ErrOpenState without invoking fn.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// GetState returns the current circuit breaker state.
func (b *Breaker) GetState() State {
	return mapState(b.cb.State())
}

// IsOpen returns true if the circuit is open.
func (b *Breaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// Counts returns the current counts from the underlying breaker.
func (b *Breaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

func mapState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
