// Package breaker guards a single upstream dependency with a circuit breaker built on
// github.com/sony/gobreaker, adding a per-call timeout that counts as a failure.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"weather-api/pkg/log"
)

// State mirrors gobreaker's state so callers do not import it directly.
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

var (
	// ErrOpenState is returned without invoking the operation while the breaker is open.
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when the half-open trial slot is already taken.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
	// ErrTimeout is returned when a call exceeds Config.CallTimeout.
	ErrTimeout = errors.New("circuit breaker: call timed out")
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the upstream in logs and metrics
	Name string

	// CallTimeout aborts a single call and records it as a failure
	CallTimeout time.Duration

	// ErrorThresholdPercent trips the breaker when the failure rate in the window exceeds it
	ErrorThresholdPercent float64

	// ResetTimeout is how long the breaker stays open before allowing a trial call
	ResetTimeout time.Duration

	// RollingWindow is the closed-state period after which counts are cleared
	RollingWindow time.Duration

	// MinRequests is the minimum volume in the window before the failure rate is evaluated
	MinRequests uint32

	// IsSuccessful decides whether an error should count as a success, e.g. a confirmed not-found.
	IsSuccessful func(err error) bool

	// OnStateChange is invoked after every transition, in addition to logging.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the standard upstream configuration: 5s call timeout, 50% error
// threshold, 10s reset timeout. A single failed call may trip it, so the retries of one
// request against a hung upstream are rejected instead of each waiting out the timeout.
func DefaultConfig(name string) Config {
	return Config{
		Name:                  name,
		CallTimeout:           5 * time.Second,
		ErrorThresholdPercent: 50,
		ResetTimeout:          10 * time.Second,
		RollingWindow:         10 * time.Second,
		MinRequests:           1,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker with a call timeout.
type CircuitBreaker struct {
	breaker     *gobreaker.CircuitBreaker
	name        string
	callTimeout time.Duration
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	threshold := cfg.ErrorThresholdPercent
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.RollingWindow,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests) * 100
			return failureRate > threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}
	if cfg.IsSuccessful != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || cfg.IsSuccessful(err)
		}
	}

	return &CircuitBreaker{
		breaker:     gobreaker.NewCircuitBreaker(settings),
		name:        cfg.Name,
		callTimeout: cfg.CallTimeout,
	}
}

type outcome struct {
	value any
	err   error
}

// Execute runs fn through the circuit breaker. While open it returns ErrOpenState without
// invoking fn. fn receives a context bounded by CallTimeout; if fn has not returned when the
// deadline passes, Execute returns ErrTimeout and the call is recorded as a failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	return cb.breaker.Execute(func() (any, error) {
		if cb.callTimeout <= 0 {
			return fn(ctx)
		}

		callCtx, cancel := context.WithTimeout(ctx, cb.callTimeout)
		defer cancel()

		done := make(chan outcome, 1)
		go func() {
			value, err := fn(callCtx)
			done <- outcome{value: value, err: err}
		}()

		select {
		case res := <-done:
			if res.err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, cb.callTimeout, res.err)
			}
			return res.value, res.err
		case <-callCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w after %s", ErrTimeout, cb.callTimeout)
		}
	})
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	return cb.breaker.State()
}

// Counts returns the request counts of the current window.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err was produced by the breaker refusing the call.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOpenState) || errors.Is(err, ErrTooManyRequests)
}
