// Package modeldb queries an open model-metadata database for pricing and
// free-tier signals independent of the serving providers.
package modeldb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phorde/freefleet/internal/adapters/providers"
	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/httpclient"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

type Adapter struct {
	baseURL string
	client  *http.Client
}

var _ ports.MetadataAdapter = (*Adapter)(nil)

func New(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Adapter) ProviderID() string   { return "modeldb" }
func (a *Adapter) ProviderName() string { return "Open Model Database" }

type dbResponse struct {
	Data []dbModel `json:"data"`
}

type dbModel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Pricing struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
		Request    string `json:"request"`
	} `json:"pricing"`
}

// IsAvailable probes the database root with a short deadline.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, a.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

func (a *Adapter) FetchModelMetadata(ctx context.Context, modelID string) (*domain.ModelMetadata, error) {
	metas, err := a.fetch(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for i := range metas {
		if metas[i].ID == modelID || strings.HasSuffix(metas[i].ID, "/"+modelID) {
			return &metas[i], nil
		}
	}
	return nil, fmt.Errorf("model %q not listed in database", modelID)
}

func (a *Adapter) FetchModelsMetadata(ctx context.Context, modelIDs []string) ([]domain.ModelMetadata, error) {
	metas, err := a.fetch(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(modelIDs) == 0 {
		return metas, nil
	}

	wanted := make(map[string]struct{}, len(modelIDs))
	for _, id := range modelIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.ModelMetadata
	for _, m := range metas {
		if _, ok := wanted[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (a *Adapter) fetch(ctx context.Context, filter string) ([]domain.ModelMetadata, error) {
	endpoint := a.baseURL + "/models"
	if filter != "" {
		endpoint += "?q=" + url.QueryEscape(filter)
	}

	var resp dbResponse
	if err := httpclient.GetJSON(ctx, a.client, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.ModelMetadata, 0, len(resp.Data))
	for _, m := range resp.Data {
		free := providers.AllZeroCost(m.Pricing.Prompt, m.Pricing.Completion, m.Pricing.Request) ||
			strings.HasSuffix(strings.ToLower(m.ID), ":free")

		tier := domain.TierConfirmedPaid
		if free {
			tier = domain.TierConfirmedFree
		}
		out = append(out, domain.ModelMetadata{
			ID:           m.ID,
			Name:         m.Name,
			IsFree:       free,
			Tier:         tier,
			Confidence:   1.0,
			Reason:       "model database pricing",
			LastVerified: time.Now(),
			Pricing: domain.Pricing{
				Prompt:     m.Pricing.Prompt,
				Completion: m.Pricing.Completion,
				Request:    m.Pricing.Request,
			},
		})
	}
	return out, nil
}
