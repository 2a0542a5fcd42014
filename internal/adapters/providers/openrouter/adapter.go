package openrouter

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
	registry.Register("openrouter", NewAdapter)
}

type Adapter struct {
	config  domain.ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewAdapter(config domain.ProviderConfig) (ports.ProviderAdapter, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://openrouter.ai/api/v1"
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		// The catalog endpoint is unauthenticated and aggressively
		// rate-limited upstream.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}, nil
}

func (a *Adapter) ProviderID() string { return a.config.ID }

func (a *Adapter) ProviderName() string {
	if a.config.Name != "" {
		return a.config.Name
	}
	return "OpenRouter"
}

// catalogResponse mirrors OpenRouter's /models payload. Only the fields the
// fleet needs are decoded; nothing else crosses the adapter boundary.
type catalogResponse struct {
	Data []catalogModel `json:"data"`
}

type catalogModel struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	ContextLength int            `json:"context_length"`
	Pricing       catalogPricing `json:"pricing"`
	TopProvider   struct {
		MaxCompletionTokens int `json:"max_completion_tokens,omitempty"`
	} `json:"top_provider,omitempty"`
}

type catalogPricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
	Request    string `json:"request"`
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

	var resp catalogResponse
	if err := httpclient.GetJSON(ctx, a.client, url, headers, &resp); err != nil {
		return nil, err
	}

	models := make([]ports.ProviderModel, 0, len(resp.Data))
	for _, m := range resp.Data {
		models = append(models, ports.ProviderModel{
			ID:              m.ID,
			Name:            m.Name,
			Description:     m.Description,
			ContextLength:   m.ContextLength,
			MaxOutputTokens: m.TopProvider.MaxCompletionTokens,
			Pricing: domain.Pricing{
				Prompt:     m.Pricing.Prompt,
				Completion: m.Pricing.Completion,
				Request:    m.Pricing.Request,
			},
		})
	}
	return models, nil
}

// IsFreeModel applies OpenRouter's pricing rule: every cost token in the
// triple is zero, or the id carries the explicit ":free" variant suffix.
func (a *Adapter) IsFreeModel(m ports.ProviderModel) bool {
	if strings.HasSuffix(strings.ToLower(m.ID), ":free") {
		return true
	}
	return providers.AllZeroCost(m.Pricing.Prompt, m.Pricing.Completion, m.Pricing.Request)
}

func (a *Adapter) NormalizeModel(m ports.ProviderModel) domain.FreeModel {
	free := a.IsFreeModel(m)
	tier := domain.TierConfirmedPaid
	confidence := 0.7
	if free {
		tier = domain.TierConfirmedFree
		confidence = 0.95
	}

	return domain.FreeModel{
		ID:              m.ID,
		Provider:        a.config.ID,
		Name:            m.Name,
		Description:     m.Description,
		ContextLength:   m.ContextLength,
		MaxOutputTokens: m.MaxOutputTokens,
		Pricing:         m.Pricing,
		IsFree:          free,
		Category:        domain.CategorizeID(m.ID),
		Categories:      domain.CategoriesForID(m.ID),
		Tier:            tier,
		Confidence:      confidence,
	}
}
