package ports

import (
	"context"

	"github.com/phorde/freefleet/internal/core/domain"
)

// MetadataAdapter answers free-tier questions from an independent metadata
// source, such as an open model-metadata database.
type MetadataAdapter interface {
	ProviderID() string
	ProviderName() string

	FetchModelMetadata(ctx context.Context, modelID string) (*domain.ModelMetadata, error)
	FetchModelsMetadata(ctx context.Context, modelIDs []string) ([]domain.ModelMetadata, error)

	// IsAvailable is a cheap liveness probe; unavailable adapters are
	// skipped during a lookup fan-out.
	IsAvailable(ctx context.Context) bool
}

// PolicyScraper derives a provider's free-tier policy from public sources.
// Scrape must not fail: on any internal error it returns a best-effort
// static fallback policy instead.
type PolicyScraper interface {
	ProviderID() string
	PolicyURL() string
	Scrape(ctx context.Context) *domain.ScrapedPolicy
}
