// Package generic is the OpenAI-compatible fallback adapter used for any
// provider id without a specialized implementation.
package generic

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/phorde/freefleet/internal/adapters/providers"
	"github.com/phorde/freefleet/internal/adapters/providers/registry"
	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/httpclient"
)

func init() {
	registry.Register(registry.GenericType, NewAdapter)
}

type Adapter struct {
	config  domain.ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
	allowed map[string]struct{}
}

func NewAdapter(config domain.ProviderConfig) (ports.ProviderAdapter, error) {
	allowed := make(map[string]struct{}, len(config.FreeModels))
	for _, id := range config.FreeModels {
		allowed[id] = struct{}{}
	}
	return &Adapter{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		allowed: allowed,
	}, nil
}

func (a *Adapter) ProviderID() string { return a.config.ID }

func (a *Adapter) ProviderName() string {
	if a.config.Name != "" {
		return a.config.Name
	}
	return a.config.ID
}

type listResponse struct {
	Data []listedModel `json:"data"`
}

type listedModel struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}

func (a *Adapter) FetchModels(ctx context.Context) ([]ports.ProviderModel, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + "/models"
	headers := map[string]string{}
	if a.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + a.config.APIKey
	}

	var resp listResponse
	if err := httpclient.GetJSON(ctx, a.client, url, headers, &resp); err != nil {
		return nil, err
	}

	models := make([]ports.ProviderModel, 0, len(resp.Data))
	for _, m := range resp.Data {
		models = append(models, ports.ProviderModel{ID: m.ID, Name: m.ID})
	}
	return models, nil
}

// IsFreeModel follows the configured policy. OpenAI-compatible listings
// carry no pricing fields, so the pricing policy can only confirm freedom
// when a pricing triple was populated by some other means.
func (a *Adapter) IsFreeModel(m ports.ProviderModel) bool {
	switch a.config.FreePolicy {
	case domain.FreePolicyAll:
		return true
	case domain.FreePolicyAllowlist:
		_, ok := a.allowed[m.ID]
		return ok
	default:
		if m.Pricing == (domain.Pricing{}) {
			return false
		}
		return providers.AllZeroCost(m.Pricing.Prompt, m.Pricing.Completion, m.Pricing.Request)
	}
}

func (a *Adapter) NormalizeModel(m ports.ProviderModel) domain.FreeModel {
	free := a.IsFreeModel(m)

	tier := domain.TierConfirmedPaid
	confidence := 0.5
	if free {
		switch a.config.FreePolicy {
		case domain.FreePolicyAllowlist:
			tier = domain.TierConfirmedFree
			confidence = 1.0
		case domain.FreePolicyAll:
			// Provider-declared blanket free tiers tend to be quota-bound.
			tier = domain.TierFreemiumLimited
			confidence = 0.8
		default:
			tier = domain.TierConfirmedFree
			confidence = 0.95
		}
	}

	return domain.FreeModel{
		ID:         m.ID,
		Provider:   a.config.ID,
		Name:       m.Name,
		Pricing:    m.Pricing,
		IsFree:     free,
		Category:   domain.CategorizeID(m.ID),
		Categories: domain.CategoriesForID(m.ID),
		Tier:       tier,
		Confidence: confidence,
	}
}
