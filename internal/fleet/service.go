// Package fleet composes discovery, verification, and delegation behind one
// service used by both the HTTP surface and the CLI.
package fleet

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/delegator"
	"github.com/phorde/freefleet/internal/logger"
	"github.com/phorde/freefleet/internal/racer"
	"github.com/phorde/freefleet/internal/scout"
)

// Service is the orchestration facade.
type Service interface {
	// Discover runs a full provider sweep and caches the result.
	Discover(ctx context.Context) (*domain.ScoutResult, error)
	// Latest returns the most recent discovery result, or nil before the
	// first sweep.
	Latest() *domain.ScoutResult
	// Verify resolves one model's cost verdict through the oracle.
	Verify(ctx context.Context, providerID, modelID string) (*domain.ModelMetadata, error)
	// Delegate classifies, selects, and races a prompt across the fleet.
	Delegate(ctx context.Context, req delegator.Request) (*delegator.Result, error)
	// RecentAudit returns the latest blocked-model audit events.
	RecentAudit(ctx context.Context, n int) []ports.AuditEvent
	// Metrics returns per-model usage aggregates.
	Metrics(ctx context.Context) map[string]ports.UsageStats
	// CancelAll aborts every in-flight race.
	CancelAll()
}

// Verifier is the oracle's lookup surface.
type Verifier interface {
	Lookup(ctx context.Context, modelID, providerID string) (*domain.ModelMetadata, error)
}

type service struct {
	log       *zap.Logger
	scout     *scout.Scout
	verifier  Verifier
	delegator *delegator.Delegator
	racer     *racer.Racer
	caller    *ChatCaller
	metrics   ports.MetricsStore
	audit     ports.AuditLog

	mu     sync.RWMutex
	latest *domain.ScoutResult
}

type Deps struct {
	Scout     *scout.Scout
	Verifier  Verifier
	Delegator *delegator.Delegator
	Racer     *racer.Racer
	Caller    *ChatCaller
	Metrics   ports.MetricsStore
	Audit     ports.AuditLog
}

func NewService(deps Deps) Service {
	return &service{
		log:       logger.Get().Named("fleet"),
		scout:     deps.Scout,
		verifier:  deps.Verifier,
		delegator: deps.Delegator,
		racer:     deps.Racer,
		caller:    deps.Caller,
		metrics:   deps.Metrics,
		audit:     deps.Audit,
	}
}

func (s *service) Discover(ctx context.Context) (*domain.ScoutResult, error) {
	result, err := s.scout.Discover(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	s.log.Info("discovery result cached",
		zap.Int("providers", len(result.Providers)),
		zap.Int("categories", len(result.Categories)),
	)
	return result, nil
}

func (s *service) Latest() *domain.ScoutResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *service) Verify(ctx context.Context, providerID, modelID string) (*domain.ModelMetadata, error) {
	return s.verifier.Lookup(ctx, modelID, providerID)
}

// Delegate races the prompt across the current fleet. A discovery sweep runs
// first when none has happened yet.
func (s *service) Delegate(ctx context.Context, req delegator.Request) (*delegator.Result, error) {
	result := s.Latest()
	if result == nil {
		var err error
		result, err = s.Discover(ctx)
		if err != nil {
			return nil, err
		}
	}

	return s.delegator.Delegate(ctx, result, req, s.caller.ExecutorFor(req.Prompt))
}

func (s *service) RecentAudit(ctx context.Context, n int) []ports.AuditEvent {
	return s.audit.Recent(ctx, n)
}

func (s *service) Metrics(ctx context.Context) map[string]ports.UsageStats {
	return s.metrics.Snapshot(ctx)
}

func (s *service) CancelAll() {
	s.racer.CancelAll()
}
