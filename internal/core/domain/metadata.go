package domain

import "time"

// ModelMetadata is the Oracle's durable verdict on a model's free-tier
// status. Once cached by model id it is served verbatim; invalidation is
// the caller's concern.
type ModelMetadata struct {
	ID           string    `json:"id"`
	Provider     string    `json:"provider,omitempty"`
	Name         string    `json:"name,omitempty"`
	IsFree       bool      `json:"is_free"`
	Tier         CostTier  `json:"tier"`
	Confidence   float64   `json:"confidence"`
	Reason       string    `json:"reason"`
	LastVerified time.Time `json:"last_verified"`
	Pricing      Pricing   `json:"pricing"`
}

// ScrapedPolicy is a provider's free-tier policy derived from public
// sources. Persisted keyed by provider id.
type ScrapedPolicy struct {
	Provider       string    `json:"provider"`
	UpdatedAt      time.Time `json:"updated_at"`
	FreeTierActive bool      `json:"free_tier_active"`
	FreeModels     []string  `json:"free_models"`
}

// HasFreeModel reports whether the policy lists the given model id as free.
func (p *ScrapedPolicy) HasFreeModel(modelID string) bool {
	if p == nil || !p.FreeTierActive {
		return false
	}
	for _, id := range p.FreeModels {
		if id == modelID {
			return true
		}
	}
	return false
}

// CommunityList is the remotely hosted allow-list document. It is merged
// additively; local entries are never removed by a remote fetch.
type CommunityList struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Models      []string `json:"models"`
}
