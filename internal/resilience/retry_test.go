package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond}
	calls := 0

	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return errors.New("connection timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 invocations, got %d", calls)
	}
}

func TestRetryExhaustedReturnsLastError(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("attempt %d: service unavailable", calls)
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 invocations, got %d", calls)
	}
	if err.Error() != "attempt 3: service unavailable" {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 5, BaseDelay: 0}, func(ctx context.Context) error {
		calls++
		return errors.New("401 invalid api key")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("non-retryable error should stop retries, got %d calls", calls)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, RetryPolicy{MaxAttempts: 5, BaseDelay: time.Minute}, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("temporary failure")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", calls)
	}
}

func TestBreakerShrinksBudget(t *testing.T) {
	t.Parallel()

	b := NewBreaker(2)
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

	if got := b.Budget("search", policy).MaxAttempts; got != 3 {
		t.Fatalf("closed breaker should keep budget, got %d", got)
	}

	b.Record("search", errors.New("timeout"))
	b.Record("search", errors.New("timeout"))

	if !b.Open("search") {
		t.Fatal("breaker should be open after two consecutive failures")
	}
	if got := b.Budget("search", policy).MaxAttempts; got != 1 {
		t.Fatalf("open breaker should collapse budget to 1, got %d", got)
	}
	if b.Open("ai") {
		t.Fatal("streaks must be tracked per dependency")
	}

	b.Record("search", nil)
	if b.Open("search") {
		t.Fatal("success should reset the streak")
	}
}
