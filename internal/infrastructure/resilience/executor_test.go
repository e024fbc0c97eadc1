package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

type observerStub struct {
	retries []string
	states  []string
}

func (o *observerStub) ObserveRetry(operation string) {
	o.retries = append(o.retries, operation)
}

func (o *observerStub) ObserveBreakerState(operation, state string) {
	o.states = append(o.states, operation+":"+state)
}

func fastRetryConfig() Config {
	return Config{
		Retry: RetryPolicy{
			MaxAttempts:    3,
			InitialBackoff: 1 * time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
			Multiplier:     2,
		},
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	observer := &observerStub{}
	exec := NewExecutor(fastRetryConfig(), WithObserver(observer))

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "llm.generate", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errTemp),
			RecordFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(observer.retries) != 2 || observer.retries[0] != "llm.generate" {
		t.Fatalf("expected 2 observed retries, got %v", observer.retries)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastRetryConfig())

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteStopsOnCanceledContext(t *testing.T) {
	exec := NewExecutor(fastRetryConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("operation must not run with a canceled context")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	observer := &observerStub{}
	exec := NewExecutor(Config{
		Retry: RetryPolicy{
			MaxAttempts:    1,
			InitialBackoff: 1 * time.Millisecond,
			MaxBackoff:     1 * time.Millisecond,
			Multiplier:     2,
		},
		Breaker: BreakerPolicy{
			Enabled:          true,
			MinRequests:      2,
			FailureRatio:     0.5,
			OpenTimeout:      50 * time.Millisecond,
			HalfOpenMaxCalls: 1,
		},
	}, WithObserver(observer))

	errTemp := errors.New("temporary")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: true,
		}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errTemp
		}, classifier)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("expected IsCircuitOpen to report open breaker")
	}

	open := exec.OpenOperations()
	if len(open) != 1 || open[0] != "op" {
		t.Fatalf("expected op to be reported open, got %v", open)
	}
	if len(observer.states) != 2 || observer.states[1] != "op:open" {
		t.Fatalf("unexpected observed states: %v", observer.states)
	}
}

func TestOpenOperationsSkipsHalfOpenBreakers(t *testing.T) {
	exec := NewExecutor(Config{
		Retry: RetryPolicy{
			MaxAttempts:    1,
			InitialBackoff: 1 * time.Millisecond,
			MaxBackoff:     1 * time.Millisecond,
			Multiplier:     2,
		},
		Breaker: BreakerPolicy{
			Enabled:          true,
			MinRequests:      1,
			FailureRatio:     0.5,
			OpenTimeout:      20 * time.Millisecond,
			HalfOpenMaxCalls: 1,
		},
	})

	classifier := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: true}
	}
	_ = exec.Execute(context.Background(), "llm.extract", func(context.Context) error {
		return errors.New("unavailable")
	}, classifier)
	if open := exec.OpenOperations(); len(open) != 1 {
		t.Fatalf("expected breaker to be reported open, got %v", open)
	}

	time.Sleep(40 * time.Millisecond)

	if state := exec.States()["llm.extract"]; state != gobreaker.StateHalfOpen.String() {
		t.Fatalf("expected half-open breaker after timeout, got %q", state)
	}
	if open := exec.OpenOperations(); len(open) != 0 {
		t.Fatalf("half-open breaker must not be reported open, got %v", open)
	}
}

func TestExecuteUsesLongestRetryOverride(t *testing.T) {
	cfg := fastRetryConfig()
	cfg.RetryOverrides = map[string]RetryPolicy{
		"llm.":          {MaxAttempts: 2, InitialBackoff: time.Millisecond},
		"llm.generate.": {MaxAttempts: 5, InitialBackoff: time.Millisecond},
	}
	exec := NewExecutor(cfg)
	retryAll := func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}

	cases := map[string]int{
		"nats.publish":        3,
		"llm.advice":          2,
		"llm.generate.prompt": 5,
	}
	for op, want := range cases {
		attempts := 0
		_ = exec.Execute(context.Background(), op, func(context.Context) error {
			attempts++
			return errors.New("down")
		}, retryAll)
		if attempts != want {
			t.Fatalf("%s: expected %d attempts, got %d", op, want, attempts)
		}
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := Config{
		Retry:          RetryPolicy{InitialBackoff: time.Second, MaxBackoff: time.Millisecond},
		RetryOverrides: map[string]RetryPolicy{"llm.": {MaxAttempts: 4}},
	}.normalize()

	def := DefaultConfig()
	if cfg.Retry.MaxAttempts != def.Retry.MaxAttempts {
		t.Fatalf("expected default attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.MaxBackoff != time.Second {
		t.Fatalf("max backoff must not be below initial backoff, got %v", cfg.Retry.MaxBackoff)
	}
	if cfg.Breaker.MinRequests != def.Breaker.MinRequests || cfg.Breaker.Enabled {
		t.Fatalf("unexpected breaker policy: %+v", cfg.Breaker)
	}
	if got := cfg.RetryOverrides["llm."]; got.MaxAttempts != 4 || got.InitialBackoff != time.Second {
		t.Fatalf("override must inherit normalized base values, got %+v", got)
	}
}
