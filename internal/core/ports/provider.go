package ports

import (
	"context"

	"github.com/phorde/freefleet/internal/core/domain"
)

// ProviderModel is the explicit intermediate shape an adapter decodes its
// provider-native response into. Adapters keep their wire types private and
// map them here; open-ended field bags never cross this boundary.
type ProviderModel struct {
	ID              string
	Name            string
	Description     string
	ContextLength   int
	MaxOutputTokens int
	Pricing         domain.Pricing
}

// ProviderAdapter fetches and normalizes one provider's model catalog.
// A non-2xx catalog response surfaces as an error from FetchModels.
type ProviderAdapter interface {
	ProviderID() string
	ProviderName() string

	FetchModels(ctx context.Context) ([]ProviderModel, error)

	// IsFreeModel applies the provider's own free-detection rule: pricing
	// fields, a static allow-list, or "assume all free" per provider policy.
	IsFreeModel(m ProviderModel) bool

	// NormalizeModel converts one catalog entry into the shared record,
	// including categorization.
	NormalizeModel(m ProviderModel) domain.FreeModel
}
