// Package circuitbreaker wraps gobreaker for guarding repeated calls to a
// struggling downstream, typically the registry database during a feed run.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config tunes one breaker instance. A zero MaxRequests admits a single
// probe in the half-open state; a zero Timeout falls back to gobreaker's
// 60 second default.
type Config struct {
	Name             string
	Enabled          bool
	MaxRequests      uint
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint
}

// CircuitBreaker is a typed wrapper around gobreaker. A nil breaker is
// valid and passes every call straight through, which is how a disabled
// configuration behaves.
type CircuitBreaker[T any] struct {
	inner *gobreaker.CircuitBreaker[T]
}

func New[T any](cfg Config) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	return &CircuitBreaker[T]{
		inner: gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: uint32(cfg.MaxRequests),
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(cfg.FailureThreshold)
			},
		}),
	}
}

// Name returns the configured breaker name.
func (c *CircuitBreaker[T]) Name() string {
	return c.inner.Name()
}

// Execute runs fn through the breaker, translating gobreaker's state errors
// into this package's sentinels. Errors returned by fn pass through
// untouched.
func Execute[T any](cb *CircuitBreaker[T], fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	result, err := cb.inner.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		var zero T

		return zero, ErrCircuitOpen
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		var zero T

		return zero, ErrTooManyRequests
	}

	return result, err
}
