package resilience

import (
	"context"
	"time"
)

// RetryPolicy bounds how often and how patiently an operation is retried.
// The delay before attempt n is BaseDelay multiplied by n, so waits grow
// with every failure.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy mirrors the budget every external call gets unless
// configuration says otherwise.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	return p
}

// Retry runs op up to MaxAttempts times, sleeping between attempts and
// honoring context cancellation. Non-retryable failures and context
// errors abort immediately; otherwise the last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, op func(context.Context) error) error {
	policy = policy.normalized()

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := policy.BaseDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !Retryable(err) {
			return err
		}
	}
	return lastErr
}
