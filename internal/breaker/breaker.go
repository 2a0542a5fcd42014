// Package breaker implements a per-dependency circuit breaker that stops
// calling a consistently failing operation for a cooldown period.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/phorde/freefleet/internal/core/domain"
)

// State is the breaker's lifecycle position.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

const (
	DefaultThreshold    = 3
	DefaultResetTimeout = 30 * time.Second
)

// Breaker wraps any fallible operation. Each instance owns its own state;
// breakers are never shared across adapters.
type Breaker struct {
	mu           sync.Mutex
	threshold    int
	resetTimeout time.Duration
	state        State
	failures     int
	lastFailure  time.Time
}

// New creates a Breaker. Non-positive arguments fall back to the defaults.
func New(threshold int, resetTimeout time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if resetTimeout <= 0 {
		resetTimeout = DefaultResetTimeout
	}
	return &Breaker{
		threshold:    threshold,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Execute runs op through the breaker. While open it rejects immediately
// with domain.ErrBreakerOpen without invoking op. Success and failure are
// judged solely by op's returned error.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := op(ctx)
	b.record(err == nil)
	return err
}

// allow decides whether a call may proceed, transitioning OPEN to
// HALF_OPEN once the reset timeout has elapsed since the last failure.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Since(b.lastFailure) < b.resetTimeout {
			return domain.ErrBreakerOpen
		}
		b.state = StateHalfOpen
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = time.Now()
	if b.state == StateHalfOpen || b.failures >= b.threshold {
		b.state = StateOpen
	}
}

// Do runs an operation returning a value through the breaker.
func Do[T any](ctx context.Context, b *Breaker, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	return out, err
}
