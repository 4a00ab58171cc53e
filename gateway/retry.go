package gateway

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures retry behavior with exponential backoff.
type RetryPolicy struct {
	MaxRetries        int     // total retry attempts (not counting initial)
	BaseDelay         float64 // initial delay in seconds
	MaxDelay          float64 // maximum delay between retries
	BackoffMultiplier float64 // exponential backoff factor
	Jitter            bool    // add random jitter to prevent thundering herd
	OnRetry           func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         1.0,
		MaxDelay:          60.0,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Delay calculates the delay for attempt n (0-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := math.Min(p.BaseDelay*math.Pow(p.BackoffMultiplier, float64(attempt)), p.MaxDelay)
	if p.Jitter {
		// +/- 50% jitter
		delay = delay * (0.5 + rand.Float64())
	}
	return time.Duration(delay * float64(time.Second))
}

// Retry executes fn with the configured retry policy. Only retryable
// errors are retried; a RateLimitError's Retry-After overrides the
// computed backoff unless it exceeds MaxDelay.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := fn(ctx)
	if err == nil {
		return result, nil
	}

	for attempt := 0; attempt < policy.MaxRetries; attempt++ {
		if !IsRetryable(err) {
			return zero, err
		}

		delay := policy.Delay(attempt)
		if rl, ok := err.(*RateLimitError); ok && rl.RetryAfter != nil {
			retryDelay := time.Duration(*rl.RetryAfter * float64(time.Second))
			if retryDelay > time.Duration(policy.MaxDelay*float64(time.Second)) {
				return zero, err
			}
			delay = retryDelay
		}

		if policy.OnRetry != nil {
			policy.OnRetry(err, attempt+1, delay)
		}

		select {
		case <-ctx.Done():
			return zero, &AbortError{ModelError: ModelError{Message: "request cancelled during retry", Cause: ctx.Err()}}
		case <-time.After(delay):
		}

		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
	}

	return zero, err
}

// retryingGateway decorates a ModelGateway with a RetryPolicy.
type retryingGateway struct {
	inner  ModelGateway
	policy RetryPolicy
}

// WithRetry wraps a ModelGateway so that Complete calls are retried
// according to policy. Stream calls are retried only up to the first
// event; once streaming has begun, errors pass through untouched.
func WithRetry(inner ModelGateway, policy RetryPolicy) ModelGateway {
	return &retryingGateway{inner: inner, policy: policy}
}

func (g *retryingGateway) Complete(ctx context.Context, req Request) (*Response, error) {
	return Retry(ctx, g.policy, func(ctx context.Context) (*Response, error) {
		return g.inner.Complete(ctx, req)
	})
}

func (g *retryingGateway) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	return Retry(ctx, g.policy, func(ctx context.Context) (<-chan StreamEvent, error) {
		return g.inner.Stream(ctx, req)
	})
}
