// Package racer executes an operation against several candidate models
// concurrently and resolves with the first success, cancelling the losers.
package racer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

// DefaultCandidateTimeout bounds each candidate execution.
const DefaultCandidateTimeout = 30 * time.Second

// Executor runs one candidate and returns its result. Implementations must
// honor context cancellation promptly; a cancelled loser that keeps running
// leaks work the race has already paid for.
type Executor func(ctx context.Context, candidateID string) (interface{}, error)

// Stage is a progress notification phase.
type Stage string

const (
	StageStarted   Stage = "started"
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// ProgressFunc observes candidate lifecycle events. It must never affect
// the race outcome; panics inside it are swallowed.
type ProgressFunc func(candidateID string, stage Stage, err error)

// Options tunes a single race.
type Options struct {
	// Name identifies the race for external cancellation. Autogenerated
	// when empty.
	Name string
	// Timeout bounds each candidate execution, not the race as a whole.
	Timeout    time.Duration
	OnProgress ProgressFunc
}

// Outcome is the winning candidate's result.
type Outcome struct {
	Candidate string
	Result    interface{}
	Duration  time.Duration
}

// Racer runs first-success-wins races with per-candidate timeouts and
// named-race cancellation.
type Racer struct {
	log    *zap.Logger
	tracer trace.Tracer

	mu     sync.Mutex
	active map[string]context.CancelCauseFunc
}

func New() *Racer {
	return &Racer{
		log:    logger.Get().Named("racer"),
		tracer: otel.Tracer("freefleet/racer"),
		active: make(map[string]context.CancelCauseFunc),
	}
}

// Race fires all candidates concurrently and returns the first success.
// When every candidate fails, the returned *domain.RaceError names each
// candidate with its individual failure reason. The losers are cancelled
// and awaited before Race returns, so no background work leaks.
func (r *Racer) Race(ctx context.Context, candidates []string, exec Executor, opts Options) (*Outcome, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	name := opts.Name
	if name == "" {
		name = uuid.NewString()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCandidateTimeout
	}

	ctx, span := r.tracer.Start(ctx, "racer.race",
		trace.WithAttributes(
			attribute.String("race.name", name),
			attribute.Int("race.candidates", len(candidates)),
		))
	defer span.End()

	raceCtx, cancel := context.WithCancelCause(ctx)
	r.register(name, cancel)
	defer func() {
		r.unregister(name)
		cancel(nil)
	}()

	type attempt struct {
		index   int
		outcome *Outcome
		err     error
	}

	results := make(chan attempt, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()

			candCtx, candCancel := context.WithTimeout(raceCtx, timeout)
			defer candCancel()

			notify(opts.OnProgress, id, StageStarted, nil)
			began := time.Now()
			result, err := exec(candCtx, id)
			elapsed := time.Since(began)

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) && raceCtx.Err() == nil {
					err = fmt.Errorf("candidate timed out after %s: %w", timeout, err)
				}
				notify(opts.OnProgress, id, StageFailed, err)
				results <- attempt{index: idx, err: err}
				return
			}

			notify(opts.OnProgress, id, StageCompleted, nil)
			results <- attempt{index: idx, outcome: &Outcome{
				Candidate: id,
				Result:    result,
				Duration:  elapsed,
			}}
		}(i, candidate)
	}

	failures := make([]error, len(candidates))
	seen := 0
	for seen < len(candidates) {
		a := <-results
		seen++

		if a.outcome != nil {
			// First success wins: signal the losers and wait for them to
			// acknowledge before handing the result back.
			cancel(nil)
			wg.Wait()
			span.SetAttributes(attribute.String("race.winner", a.outcome.Candidate))
			r.log.Debug("race won",
				zap.String("race", name),
				zap.String("winner", a.outcome.Candidate),
				zap.Duration("duration", a.outcome.Duration),
			)
			return a.outcome, nil
		}
		failures[a.index] = a.err
	}
	wg.Wait()

	raceErr := &domain.RaceError{Name: name}
	for i, id := range candidates {
		err := failures[i]
		if cause := context.Cause(raceCtx); cause != nil && errors.Is(cause, domain.ErrRaceCancelled) {
			err = domain.ErrRaceCancelled
		}
		raceErr.Failures = append(raceErr.Failures, domain.CandidateFailure{Candidate: id, Err: err})
	}
	r.log.Warn("race failed", zap.String("race", name), zap.Int("candidates", len(candidates)))
	return nil, raceErr
}

// Cancel aborts an in-flight named race, resolving it as a total failure.
// It reports whether a race with that name was active.
func (r *Racer) Cancel(name string) bool {
	r.mu.Lock()
	cancel, ok := r.active[name]
	delete(r.active, name)
	r.mu.Unlock()

	if ok {
		cancel(domain.ErrRaceCancelled)
	}
	return ok
}

// CancelAll aborts every in-flight race.
func (r *Racer) CancelAll() {
	r.mu.Lock()
	cancels := make([]context.CancelCauseFunc, 0, len(r.active))
	for name, cancel := range r.active {
		cancels = append(cancels, cancel)
		delete(r.active, name)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel(domain.ErrRaceCancelled)
	}
}

func (r *Racer) register(name string, cancel context.CancelCauseFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[name] = cancel
}

func (r *Racer) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, name)
}

func notify(fn ProgressFunc, id string, stage Stage, err error) {
	if fn == nil {
		return
	}
	defer func() {
		// The progress callback is observability only; a panicking
		// observer must not decide the race.
		_ = recover()
	}()
	fn(id, stage, err)
}
