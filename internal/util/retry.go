// ABOUTME: Retry utilities for provider calls with exponential backoff
// ABOUTME: Used by the LLM client for transport-level retries, not schema repair
package util

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// MaxBackoff caps any single wait between attempts.
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// The base delay doubles each attempt and gets up to ±25% random jitter.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	half := int64(backoff) / 2
	if half <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}

// Wait sleeps for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
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

// Retry calls fn up to retries+1 times, backing off between failures.
// It stops early when ctx is cancelled.
func Retry(ctx context.Context, retries int, baseDelay time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := Wait(ctx, CalculateBackoff(baseDelay, attempt)); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}
	return fmt.Errorf("failed after %d attempts: %w", retries+1, lastErr)
}
