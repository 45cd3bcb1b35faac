package services

import (
	"context"
	"math/rand/v2"
	"time"
)

// maxBackoff caps a single retry delay.
const maxBackoff = 30 * time.Second

// calculateBackoff returns an exponential delay with jitter for a retry attempt.
// Attempt 1 is the first retry. The result lies within ±25% of base*2^attempt.
func calculateBackoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := base * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	if half := int64(backoff) / 2; half > 0 {
		jitter := time.Duration(rand.Int64N(half)) - backoff/4
		backoff += jitter
	}
	return backoff
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
