package workflow

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// retryDelays is the backoff schedule between step attempts
var retryDelays = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}

// jitterFactor is the ±percentage of jitter applied to delays
const jitterFactor = 0.2

// RetryPolicy bounds how often a workflow step is re-attempted
type RetryPolicy struct {
	MaxAttempts int
}

// DefaultRetryPolicy covers transient collaborator and store failures
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5}

// NoRetry fails the step on its first error. Used for the classify step:
// a costly, nondeterministic call must not be silently repeated.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// nextDelay returns the backoff before attempt n+1, with jitter.
// attempt is 0-indexed over failures.
func nextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(retryDelays) {
		attempt = len(retryDelays) - 1
	}

	base := retryDelays[attempt]
	jitterRange := float64(base) * jitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// withRetry runs fn up to policy.MaxAttempts times with backoff between
// attempts, honoring context cancellation while waiting.
func withRetry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(nextDelay(attempt - 1)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if attempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("exhausted %d attempts: %w", attempts, lastErr)
}
