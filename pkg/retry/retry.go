package retry

import (
	"context"
	"log"
	"time"

	"novelog-backend/pkg/apperr"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1 * time.Second
)

// Options controls the retry loop. The zero value means defaults
// (3 attempts, 1s base delay, exponential backoff without jitter).
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Classify decides whether a failure is transient. Defaults to
	// apperr.IsRateLimited (HTTP 429 or "rate limit" in the message).
	Classify func(error) bool

	// Sleep is swapped out in tests. Defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = defaultBaseDelay
	}
	if o.Classify == nil {
		o.Classify = apperr.IsRateLimited
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	return o
}

// Do invokes op, retrying transient failures with exponential backoff
// (base * 2^attempt). Non-retryable failures and exhausted attempts
// propagate the original error unchanged so the caller's classification
// sees the authentic upstream signal. op must tolerate being invoked more
// than once; effects are at-least-once.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !opts.Classify(err) {
			return zero, err
		}
		if attempt == opts.MaxAttempts-1 {
			break
		}

		delay := opts.BaseDelay * (1 << attempt)
		log.Printf("[Retry] attempt %d/%d rate limited, backing off %s: %v", attempt+1, opts.MaxAttempts, delay, err)
		if err := opts.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
