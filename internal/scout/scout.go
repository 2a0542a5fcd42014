// Package scout discovers, filters, and ranks free models across every
// provider the host environment references.
package scout

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/adapters/providers/registry"
	"github.com/phorde/freefleet/internal/breaker"
	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/logger"
)

// Config describes the host environment the scout inspects.
type Config struct {
	// Providers are the provider blocks from host configuration.
	Providers []domain.ProviderConfig
	// CategoryFallbacks maps a category name to its fallback chain of
	// "provider/model" ids; providers referenced only here are still
	// detected as active.
	CategoryFallbacks map[string][]string
	// AuthBridges flags host credentials bound to a paid provider family.
	AuthBridges map[string]bool
	// AllowPaidProviders disables the authenticated-provider safety valve.
	AllowPaidProviders bool

	BreakerThreshold    int
	BreakerResetTimeout time.Duration
}

type wrappedAdapter struct {
	adapter ports.ProviderAdapter
	breaker *breaker.Breaker
}

// Scout owns one adapter per detected provider, each behind its own
// circuit breaker.
type Scout struct {
	log       *zap.Logger
	tracer    trace.Tracer
	audit     ports.AuditLog
	blocklist map[string]string // provider id -> reason
	adapters  map[string]*wrappedAdapter
}

// New inspects host configuration, builds the safety blocklist, detects
// active providers, and constructs one breaker-wrapped adapter per id.
func New(cfg Config, audit ports.AuditLog) (*Scout, error) {
	s := &Scout{
		log:       logger.Get().Named("scout"),
		tracer:    otel.Tracer("freefleet/scout"),
		audit:     audit,
		blocklist: buildBlocklist(cfg),
		adapters:  make(map[string]*wrappedAdapter),
	}

	byID := make(map[string]domain.ProviderConfig)
	for _, p := range cfg.Providers {
		if p.Enabled {
			byID[p.ID] = p
		}
	}

	for _, id := range detectProviderIDs(cfg) {
		pCfg, ok := byID[id]
		if !ok {
			// Referenced only through a fallback chain: synthesize a
			// generic adapter config.
			pCfg = domain.ProviderConfig{ID: id, Type: registry.GenericType, Enabled: true}
		}

		factory, err := registry.Resolve(pCfg.Type)
		if err != nil {
			return nil, err
		}
		adapter, err := factory(pCfg)
		if err != nil {
			s.log.Warn("failed to construct provider adapter",
				zap.String("provider", id), zap.Error(err))
			continue
		}

		s.adapters[id] = &wrappedAdapter{
			adapter: adapter,
			breaker: breaker.New(cfg.BreakerThreshold, cfg.BreakerResetTimeout),
		}
	}

	return s, nil
}

// buildBlocklist applies the safety valve: credentials bound to a paid
// provider family must never be billed through the free pathway unless the
// operator explicitly opted in.
func buildBlocklist(cfg Config) map[string]string {
	blocked := make(map[string]string)
	if cfg.AllowPaidProviders {
		return blocked
	}
	for family, present := range cfg.AuthBridges {
		if !present {
			continue
		}
		for _, id := range paidAuthFamilies[family] {
			blocked[id] = "authenticated " + family + " credentials present"
		}
	}
	return blocked
}

// detectProviderIDs enumerates provider ids referenced directly or through
// category fallback chains, deduplicated in first-seen order.
func detectProviderIDs(cfg Config) []string {
	seen := make(map[string]struct{})
	var ids []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, p := range cfg.Providers {
		if p.Enabled {
			add(p.ID)
		}
	}
	fallbackCategories := make([]string, 0, len(cfg.CategoryFallbacks))
	for c := range cfg.CategoryFallbacks {
		fallbackCategories = append(fallbackCategories, c)
	}
	sort.Strings(fallbackCategories)
	for _, c := range fallbackCategories {
		for _, ref := range cfg.CategoryFallbacks[c] {
			provider, _, found := strings.Cut(ref, "/")
			if found {
				add(provider)
			}
		}
	}
	return ids
}

// Providers returns the detected provider ids, sorted.
func (s *Scout) Providers() []string {
	ids := make([]string, 0, len(s.adapters))
	for id := range s.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Discover runs one full discovery pass: fetch every catalog, normalize,
// filter, categorize, and rank. A single provider failing never aborts the
// pass; zero detected providers is the one terminal error.
func (s *Scout) Discover(ctx context.Context) (*domain.ScoutResult, error) {
	if len(s.adapters) == 0 {
		return nil, domain.ErrNoProviders
	}

	ctx, span := s.tracer.Start(ctx, "scout.discover",
		trace.WithAttributes(attribute.Int("providers", len(s.adapters))))
	defer span.End()

	var (
		mu     sync.Mutex
		models []domain.FreeModel
		wg     sync.WaitGroup
	)

	for id, wa := range s.adapters {
		wg.Add(1)
		go func(id string, wa *wrappedAdapter) {
			defer wg.Done()

			free := s.fetchProvider(ctx, id, wa)
			mu.Lock()
			models = append(models, free...)
			mu.Unlock()
		}(id, wa)
	}
	wg.Wait()

	result := s.categorize(models)
	result.Providers = s.Providers()
	span.SetAttributes(attribute.Int("free_models", len(models)))
	return result, nil
}

// fetchProvider pulls and normalizes one provider's catalog. Failures are
// recorded as an empty result for that provider.
func (s *Scout) fetchProvider(ctx context.Context, id string, wa *wrappedAdapter) []domain.FreeModel {
	if reason, blocked := s.blocklist[id]; blocked {
		s.log.Info("provider blocklisted, skipping",
			zap.String("provider", id), zap.String("reason", reason))
		s.recordBlocked(ctx, id, "", reason)
		return nil
	}

	raw, err := breaker.Do(ctx, wa.breaker, func(ctx context.Context) ([]ports.ProviderModel, error) {
		return wa.adapter.FetchModels(ctx)
	})
	if err != nil {
		s.log.Warn("catalog fetch failed, treating provider as empty",
			zap.String("provider", id), zap.Error(err))
		return nil
	}

	var free []domain.FreeModel
	for _, m := range raw {
		if !wa.adapter.IsFreeModel(m) {
			continue
		}
		free = append(free, wa.adapter.NormalizeModel(m))
	}

	s.log.Debug("provider catalog normalized",
		zap.String("provider", id),
		zap.Int("total", len(raw)),
		zap.Int("free", len(free)),
	)
	return free
}

// categorize places each model in every category it matches and ranks each
// category's set.
func (s *Scout) categorize(models []domain.FreeModel) *domain.ScoutResult {
	result := &domain.ScoutResult{
		Categories: make(map[domain.Category]*domain.CategoryResult, len(domain.Categories)),
	}
	for _, c := range domain.Categories {
		result.Categories[c] = &domain.CategoryResult{Category: c}
	}

	for _, m := range models {
		cats := m.Categories
		if len(cats) == 0 {
			cats = domain.CategoriesForID(m.ID)
		}
		for _, c := range cats {
			cr := result.Categories[c]
			cr.Models = append(cr.Models, m)
		}
	}

	for _, cr := range result.Categories {
		cr.Ranked = RankModelsByBenchmark(cr.Models, cr.Category)
		for _, m := range cr.Ranked {
			if m.IsElite {
				cr.Elite = append(cr.Elite, m)
			}
		}
	}
	return result
}

func (s *Scout) recordBlocked(ctx context.Context, provider, model, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Append(ctx, ports.AuditEvent{
		Timestamp: time.Now(),
		Provider:  provider,
		Model:     model,
		Reason:    reason,
	})
}
