// Package delegator sequences classification, candidate selection, racing,
// and metrics for one task.
package delegator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/logger"
	"github.com/phorde/freefleet/internal/racer"
	"github.com/phorde/freefleet/internal/selector"
)

// tokensPerWord approximates token usage from whitespace-separated words.
const tokensPerWord = 1.3

// TaskClassifier maps a prompt to a coarse task type.
type TaskClassifier interface {
	Classify(prompt string) domain.TaskType
}

// Request is one task to delegate.
type Request struct {
	Prompt string
	// ForceTaskType bypasses classification when non-empty.
	ForceTaskType domain.TaskType
	// ForceCategory bypasses the task-to-category table when non-empty.
	ForceCategory domain.Category
}

// Result is the winning delegation outcome.
type Result struct {
	Candidate string
	Category  domain.Category
	TaskType  domain.TaskType
	Output    interface{}
	Duration  time.Duration
	Attempts  int
}

// Delegator wires the selector and racer around a caller-supplied
// per-candidate executor.
type Delegator struct {
	log        *zap.Logger
	tracer     trace.Tracer
	classifier TaskClassifier
	racer      *racer.Racer
	metrics    ports.MetricsStore
	config     domain.DelegationConfig
}

func New(classifier TaskClassifier, r *racer.Racer, metrics ports.MetricsStore, cfg domain.DelegationConfig) *Delegator {
	return &Delegator{
		log:        logger.Get().Named("delegator"),
		tracer:     otel.Tracer("freefleet/delegator"),
		classifier: classifier,
		racer:      r,
		metrics:    metrics,
		config:     cfg,
	}
}

// Delegate classifies the request, selects candidates from the discovery
// result, races them with staged fallback, and records metrics. The error
// from a fully exhausted race is re-raised to the caller after the failure
// metric is recorded.
func (d *Delegator) Delegate(ctx context.Context, result *domain.ScoutResult, req Request, exec racer.Executor) (*Result, error) {
	taskType := req.ForceTaskType
	if taskType == "" {
		taskType = d.classifier.Classify(req.Prompt)
	}

	category := req.ForceCategory
	if category == "" {
		category = domain.CategoryForTask(taskType)
	}

	ctx, span := d.tracer.Start(ctx, "delegator.delegate",
		trace.WithAttributes(
			attribute.String("task.type", string(taskType)),
			attribute.String("category", string(category)),
			attribute.String("mode", string(d.config.Mode)),
		))
	defer span.End()

	ranked := result.ModelsFor(category)
	candidates := d.candidatesFor(ranked)

	d.log.Info("delegating task",
		zap.String("task_type", string(taskType)),
		zap.String("category", string(category)),
		zap.Int("primary", len(candidates.Primary)),
		zap.Int("fallback", len(candidates.Fallback)),
	)

	attempts := 0
	outcome, err := d.racer.RaceWithFallback(ctx, candidates.Primary, candidates.Fallback, exec, racer.FallbackOptions{
		Options: racer.Options{
			Name: "delegation-" + uuid.NewString(),
		},
		Depth: d.config.FallbackDepth,
		OnFallback: func(attempt int, wave []string) {
			attempts = attempt
			d.log.Warn("race wave failed, falling back",
				zap.Int("attempt", attempt),
				zap.Strings("candidates", wave),
			)
		},
	})
	if err != nil {
		d.metrics.RecordFailure(ctx, string(category))
		return nil, err
	}
	if attempts == 0 {
		attempts = 1
	}

	tokens := estimateTokens(req.Prompt)
	d.metrics.RecordSuccess(ctx, outcome.Candidate, outcome.Duration, tokens)
	span.SetAttributes(attribute.String("winner", outcome.Candidate))

	return &Result{
		Candidate: outcome.Candidate,
		Category:  category,
		TaskType:  taskType,
		Output:    outcome.Result,
		Duration:  outcome.Duration,
		Attempts:  attempts,
	}, nil
}

// candidatesFor applies the fleet mode. Ultra-free races everything with
// no fallback split; the other modes race raceCount with the rest staged
// as fallback waves.
func (d *Delegator) candidatesFor(ranked []domain.FreeModel) selector.Candidates {
	if d.config.Mode == domain.ModeUltraFree {
		return selector.Candidates{Primary: selector.Select(ranked, domain.ModeUltraFree, d.config.RaceCount)}
	}
	if d.config.Mode == domain.ModeSOTAOnly {
		return selector.Candidates{Primary: selector.Select(ranked, domain.ModeSOTAOnly, d.config.RaceCount)}
	}
	return selector.SelectWithFallback(ranked, d.config.RaceCount)
}

func estimateTokens(prompt string) int {
	words := len(strings.Fields(prompt))
	return int(float64(words) * tokensPerWord)
}
