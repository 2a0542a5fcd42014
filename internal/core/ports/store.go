package ports

import (
	"context"
	"time"

	"github.com/phorde/freefleet/internal/core/domain"
)

// VerdictCache is the Oracle's durable verdict store keyed by bare model id.
// Entries have no TTL; invalidation is an explicit Delete by the caller.
// Implementations log and swallow their own I/O failures; a lookup must
// never fail because the cache could not persist.
type VerdictCache interface {
	Get(ctx context.Context, modelID string) (*domain.ModelMetadata, bool)
	Put(ctx context.Context, meta *domain.ModelMetadata)
	Delete(ctx context.Context, modelID string)
}

// PolicyStore persists scraped free-tier policies keyed by provider id.
type PolicyStore interface {
	Get(ctx context.Context, providerID string) (*domain.ScrapedPolicy, bool)
	Put(ctx context.Context, policy *domain.ScrapedPolicy)
}

// UsageStats is the aggregate recorded for one model.
type UsageStats struct {
	Delegations     int           `json:"delegations"`
	EstimatedTokens int64         `json:"estimated_tokens"`
	TotalLatency    time.Duration `json:"total_latency"`
	Failures        int           `json:"failures"`
}

// MetricsStore records per-model usage. Writes are fire-and-forget.
type MetricsStore interface {
	RecordSuccess(ctx context.Context, modelID string, latency time.Duration, estimatedTokens int)
	RecordFailure(ctx context.Context, category string)
	Snapshot(ctx context.Context) map[string]UsageStats
}

// AuditEvent is one append-only record of a blocked-model decision.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	Reason    string    `json:"reason"`
}

// AuditLog appends blocked-model events, one JSON object per line.
type AuditLog interface {
	Append(ctx context.Context, event AuditEvent)
	Recent(ctx context.Context, n int) []AuditEvent
}
