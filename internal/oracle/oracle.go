// Package oracle reconciles free-tier signals from adapters, scraped
// policies, and allow-lists into confidence-scored verdicts with durable
// caching.
package oracle

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/httpclient"
	"github.com/phorde/freefleet/internal/logger"
)

const (
	// AdapterTimeout bounds each metadata adapter query during a fan-out.
	AdapterTimeout = 5 * time.Second
	// CommunityFetchTimeout bounds the startup community list fetch.
	CommunityFetchTimeout = 5 * time.Second
)

// Config wires an Oracle's collaborators.
type Config struct {
	Cache        ports.VerdictCache
	Policies     ports.PolicyStore
	AllowList    *AllowList
	Adapters     []ports.MetadataAdapter
	Scrapers     []ports.PolicyScraper
	CommunityURL string
	HTTPClient   *http.Client
}

// Oracle answers "is model X free, and how confident are we?".
type Oracle struct {
	log       *zap.Logger
	tracer    trace.Tracer
	cache     ports.VerdictCache
	policies  ports.PolicyStore
	allow     *AllowList
	adapters  []ports.MetadataAdapter
	scrapers  []ports.PolicyScraper
	client    *http.Client
	community string

	bg sync.WaitGroup
}

// New constructs the Oracle and fires its best-effort background refreshes:
// the remote community allow-list merge and one pass over all registered
// policy scrapers. Neither blocks readiness; failures only log warnings.
func New(cfg Config) *Oracle {
	o := &Oracle{
		log:       logger.Get().Named("oracle"),
		tracer:    otel.Tracer("freefleet/oracle"),
		cache:     cfg.Cache,
		policies:  cfg.Policies,
		allow:     cfg.AllowList,
		adapters:  cfg.Adapters,
		scrapers:  cfg.Scrapers,
		client:    cfg.HTTPClient,
		community: cfg.CommunityURL,
	}
	if o.allow == nil {
		o.allow = NewAllowList(nil)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: CommunityFetchTimeout}
	}

	o.bg.Add(2)
	go o.refreshCommunity()
	go o.runScrapers()

	return o
}

// AllowList exposes the oracle-owned allow-list for runtime mutation.
func (o *Oracle) AllowList() *AllowList { return o.allow }

// WaitBackground blocks until the construction-time refreshes finish.
// Intended for tests and orderly shutdown, never for the request path.
func (o *Oracle) WaitBackground() { o.bg.Wait() }

// Invalidate removes a cached verdict so the next lookup re-queries sources.
func (o *Oracle) Invalidate(ctx context.Context, modelID string) {
	o.cache.Delete(ctx, modelID)
}

// Lookup resolves a model's free-tier verdict, cheapest and most
// authoritative source first. A total absence of data is not an error; it
// yields an UNKNOWN verdict with zero confidence.
func (o *Oracle) Lookup(ctx context.Context, modelID, providerID string) (*domain.ModelMetadata, error) {
	ctx, span := o.tracer.Start(ctx, "oracle.lookup",
		trace.WithAttributes(
			attribute.String("model.id", modelID),
			attribute.String("provider.id", providerID),
		))
	defer span.End()

	if meta, ok := o.cache.Get(ctx, modelID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return meta, nil
	}

	if id, ok := o.allowListMatch(modelID, providerID); ok {
		meta := &domain.ModelMetadata{
			ID:           modelID,
			Provider:     providerID,
			IsFree:       true,
			Tier:         domain.TierConfirmedFree,
			Confidence:   1.0,
			Reason:       fmt.Sprintf("confirmed-free allow-list entry %q", id),
			LastVerified: time.Now(),
		}
		o.cache.Put(ctx, meta)
		return meta, nil
	}

	meta := o.consultSources(ctx, modelID, providerID)
	o.cache.Put(ctx, meta)
	return meta, nil
}

// allowListMatch checks the bare id, the provider-qualified id, and the
// openrouter-qualified id in that order.
func (o *Oracle) allowListMatch(modelID, providerID string) (string, bool) {
	if o.allow.Contains(modelID) {
		return modelID, true
	}
	if providerID != "" {
		qualified := providerID + "/" + modelID
		if o.allow.Contains(qualified) {
			return qualified, true
		}
	}
	if providerID != "openrouter" {
		qualified := "openrouter/" + modelID
		if o.allow.Contains(qualified) {
			return qualified, true
		}
	}
	return "", false
}

type adapterResult struct {
	name string
	meta *domain.ModelMetadata
}

// consultSources merges the scraped policy with a concurrent fan-out over
// every available metadata adapter. One adapter's failure or timeout never
// cancels its siblings; its slot simply contributes no data.
func (o *Oracle) consultSources(ctx context.Context, modelID, providerID string) *domain.ModelMetadata {
	var policy *domain.ScrapedPolicy
	if providerID != "" && o.policies != nil {
		policy, _ = o.policies.Get(ctx, providerID)
	}

	results := make([]*adapterResult, len(o.adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range o.adapters {
		g.Go(func() error {
			if !adapter.IsAvailable(gctx) {
				return nil
			}
			actx, cancel := context.WithTimeout(gctx, AdapterTimeout)
			defer cancel()

			meta, err := adapter.FetchModelMetadata(actx, modelID)
			if err != nil {
				o.log.Debug("metadata adapter yielded no data",
					zap.String("adapter", adapter.ProviderID()),
					zap.String("model", modelID),
					zap.Error(err),
				)
				return nil
			}
			results[i] = &adapterResult{name: adapter.ProviderName(), meta: meta}
			return nil
		})
	}
	_ = g.Wait()

	return o.merge(modelID, providerID, policy, results)
}

func (o *Oracle) merge(modelID, providerID string, policy *domain.ScrapedPolicy, results []*adapterResult) *domain.ModelMetadata {
	meta := &domain.ModelMetadata{
		ID:           modelID,
		Provider:     providerID,
		LastVerified: time.Now(),
	}

	var freeSources, dataSources []string
	for _, r := range results {
		if r == nil {
			continue
		}
		dataSources = append(dataSources, r.name)
		if r.meta.IsFree {
			freeSources = append(freeSources, r.name)
		}
		if meta.Name == "" {
			meta.Name = r.meta.Name
		}
		if meta.Pricing == (domain.Pricing{}) {
			meta.Pricing = r.meta.Pricing
		}
	}

	switch {
	case policy.HasFreeModel(modelID):
		// The scraped provider policy is authoritative over adapter pricing.
		meta.IsFree = true
		meta.Tier = domain.TierConfirmedFree
		meta.Confidence = 1.0
		meta.Reason = fmt.Sprintf("free per scraped %s policy", providerID)
	case len(freeSources) > 0:
		meta.IsFree = true
		meta.Tier = domain.TierConfirmedFree
		meta.Confidence = 1.0
		meta.Reason = "reported free by " + strings.Join(freeSources, ", ")
	case len(dataSources) > 0:
		meta.Tier = domain.TierConfirmedPaid
		meta.Confidence = 0.7
		meta.Reason = "listed without free pricing by " + strings.Join(dataSources, ", ")
	default:
		meta.Tier = domain.TierUnknown
		meta.Confidence = 0
		meta.Reason = "no source found"
	}

	return meta
}

func (o *Oracle) refreshCommunity() {
	defer o.bg.Done()

	if o.community == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), CommunityFetchTimeout)
	defer cancel()

	var list domain.CommunityList
	if err := httpclient.GetJSON(ctx, o.client, o.community, nil, &list); err != nil {
		o.log.Warn("community allow-list fetch failed, keeping local list",
			zap.String("url", o.community), zap.Error(err))
		return
	}

	added := o.allow.MergeCommunity(&list)
	o.log.Info("community allow-list merged",
		zap.String("version", list.Version),
		zap.Int("added", added),
	)
}

// runScrapers runs every registered policy scraper once. Scrapers are
// contractually infallible, but one misbehaving scraper must not keep
// another's results from being recorded.
func (o *Oracle) runScrapers() {
	defer o.bg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, scraper := range o.scrapers {
		wg.Add(1)
		go func(s ports.PolicyScraper) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.log.Warn("policy scraper panicked",
						zap.String("provider", s.ProviderID()),
						zap.Any("panic", r),
					)
				}
			}()

			policy := s.Scrape(ctx)
			if policy == nil {
				return
			}
			if o.policies != nil {
				o.policies.Put(ctx, policy)
			}
			o.log.Info("policy scraped",
				zap.String("provider", s.ProviderID()),
				zap.Bool("free_tier_active", policy.FreeTierActive),
				zap.Int("free_models", len(policy.FreeModels)),
			)
		}(scraper)
	}
	wg.Wait()
}
