// Package retry re-invokes an operation with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Attempt describes one failed invocation, passed to Policy.OnFailedAttempt.
type Attempt struct {
	// Number is 1 for the first invocation
	Number int
	// RetriesLeft is 0 when no further invocation will follow
	RetriesLeft int
	// Delay is the wait before the next invocation, zero when none follows
	Delay time.Duration
	Err   error
}

// Policy holds the configuration for retry logic.
type Policy struct {
	// MaxRetries is the number of extra invocations after the first failure
	MaxRetries int

	// InitialDelay is the wait before the first retry
	InitialDelay time.Duration

	// Factor multiplies the delay after each retry
	Factor float64

	// MaxDelay caps the delay; zero means uncapped
	MaxDelay time.Duration

	// Retryable reports whether err may be retried; nil retries every error
	Retryable func(err error) bool

	// OnFailedAttempt observes every failed invocation without changing control flow
	OnFailedAttempt func(a Attempt)

	// Sleep waits for d or until ctx is done; nil uses a timer
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns 3 retries starting at 500ms and doubling (500ms, 1s, 2s).
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		Factor:       2,
	}
}

// Do invokes fn until it succeeds, returns a non-retryable error, or the retries are exhausted.
// The last error is returned unchanged so callers can classify it with errors.Is/As.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := p.InitialDelay
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}

		retriesLeft := p.MaxRetries - attempt + 1
		retryable := p.Retryable == nil || p.Retryable(err)
		if !retryable || retriesLeft <= 0 || ctx.Err() != nil {
			notify(p, Attempt{Number: attempt, Err: err})
			return zero, err
		}

		notify(p, Attempt{Number: attempt, RetriesLeft: retriesLeft, Delay: delay, Err: err})

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, fmt.Errorf("retry aborted: %w", err)
		}

		delay = time.Duration(float64(delay) * factor)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}

func notify(p Policy, a Attempt) {
	if p.OnFailedAttempt != nil {
		p.OnFailedAttempt(a)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
