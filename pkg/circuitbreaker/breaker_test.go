package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{
		Name:             "test",
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}, zap.NewNop())

	failing := errors.New("listener failed")
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return failing }); !errors.Is(err, failing) {
			t.Fatalf("call %d: err = %v, want %v", i, err, failing)
		}
	}

	if !b.IsOpen() {
		t.Fatal("breaker should be open after threshold failures")
	}

	called := false
	err := b.Execute(func() error { called = true; return nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want ErrOpenState", err)
	}
	if called {
		t.Fatal("fn must not run while the circuit is open")
	}
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := New(DefaultConfig("ok"), zap.NewNop())
	for i := 0; i < 10; i++ {
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatal(err)
		}
	}
	if b.GetState() != StateClosed {
		t.Fatalf("state = %v, want closed", b.GetState())
	}
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "reset", MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 3}, zap.NewNop())
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		b.Execute(func() error { return boom })
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatal(err)
		}
	}
	if b.IsOpen() {
		t.Fatal("interleaved successes should keep the circuit closed")
	}
}
