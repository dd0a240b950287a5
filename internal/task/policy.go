package task

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy governs how many times a failed attempt is retried and how
// long the broker waits before redelivering.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	// With the default of 3 a job is attempted at most 4 times in total.
	MaxRetries int

	// BaseDelay is the backoff base; the delay before attempt n+1 is
	// BaseDelay * 2^(n-1), scaled by jitter and capped at MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay.
	MaxDelay time.Duration

	// randFloat is injectable for tests; nil means math/rand.
	randFloat func() float64
}

// DefaultRetryPolicy returns the policy the worker ships with: 3 retries,
// 2s backoff base, delays capped at 10 minutes.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Minute,
	}
}

// ShouldRetry reports whether the job still has retry budget after the
// given 1-based attempt failed.
func (p RetryPolicy) ShouldRetry(attempt int) bool {
	// attempt-1 retries have already been consumed.
	return attempt-1 < p.MaxRetries
}

// Backoff computes the redelivery delay after the given failed attempt:
// exponential in the attempt number with random jitter in [0.5, 1.0),
// capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))

	jitterFactor := 0.5 + p.rand()*0.5
	delay := time.Duration(backoff * jitterFactor)

	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

func (p RetryPolicy) rand() float64 {
	if p.randFloat != nil {
		return p.randFloat()
	}
	return rand.Float64()
}
