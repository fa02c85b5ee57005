package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteReportsTransitions(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute})
	var transitions []CircuitState
	b.OnStateChange(func(_, to CircuitState) {
		transitions = append(transitions, to)
	})

	upstreamErr := errors.New("upstream 503")
	if err := b.Execute(func() error { return upstreamErr }); !errors.Is(err, upstreamErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
	if len(transitions) != 1 || transitions[0] != CircuitStateOpen {
		t.Fatalf("unexpected transitions %v", transitions)
	}
}

func TestCircuitBreaker_DisabledConfigRunsDirectly(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	called := false
	if err := b.Execute(func() error { called = true; return nil }); err != nil || !called {
		t.Fatalf("expected nil breaker to run fn, err=%v called=%v", err, called)
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3}.withDefaults()
	if got.FailureThreshold != 3 {
		t.Fatalf("explicit threshold overwritten: %d", got.FailureThreshold)
	}
	if got.OpenTimeout != DefaultOpenTimeout || got.HalfOpenMaxReq != DefaultHalfOpenMaxReq {
		t.Fatalf("defaults not applied: %+v", got)
	}
}
