package jsonfile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
)

func TestVerdictCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdicts.json")
	ctx := context.Background()

	cache := NewVerdictCache(path)
	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Put(ctx, &domain.ModelMetadata{
		ID:         "llama-3.3-70b",
		Provider:   "openrouter",
		IsFree:     true,
		Tier:       domain.TierConfirmedFree,
		Confidence: 1.0,
		Reason:     "allow-list match",
	})

	// A fresh instance must see the persisted verdict.
	reloaded := NewVerdictCache(path)
	meta, ok := reloaded.Get(ctx, "llama-3.3-70b")
	require.True(t, ok)
	assert.Equal(t, domain.TierConfirmedFree, meta.Tier)
	assert.Equal(t, 1.0, meta.Confidence)

	reloaded.Delete(ctx, "llama-3.3-70b")
	_, ok = reloaded.Get(ctx, "llama-3.3-70b")
	assert.False(t, ok)
}

func TestVerdictCacheWriteFailureIsSwallowed(t *testing.T) {
	// A path whose parent cannot be created must not panic or error out.
	cache := NewVerdictCache("/dev/null/impossible/verdicts.json")
	cache.Put(context.Background(), &domain.ModelMetadata{ID: "m"})

	meta, ok := cache.Get(context.Background(), "m")
	require.True(t, ok, "in-memory state survives a failed flush")
	assert.Equal(t, "m", meta.ID)
}

func TestPolicyStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.json")
	ctx := context.Background()

	store := NewPolicyStore(path)
	store.Put(ctx, &domain.ScrapedPolicy{
		Provider:       "gemini",
		UpdatedAt:      time.Now(),
		FreeTierActive: true,
		FreeModels:     []string{"gemini-2.0-flash"},
	})

	reloaded := NewPolicyStore(path)
	policy, ok := reloaded.Get(ctx, "gemini")
	require.True(t, ok)
	assert.True(t, policy.HasFreeModel("gemini-2.0-flash"))
	assert.False(t, policy.HasFreeModel("gemini-ultra"))
}

func TestMetricsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	ctx := context.Background()

	store := NewMetricsStore(path)
	store.RecordSuccess(ctx, "openrouter/llama-3.3-70b", 120*time.Millisecond, 42)
	store.RecordSuccess(ctx, "openrouter/llama-3.3-70b", 80*time.Millisecond, 10)
	store.RecordFailure(ctx, "coding")

	snap := NewMetricsStore(path).Snapshot(ctx)
	st := snap["openrouter/llama-3.3-70b"]
	assert.Equal(t, 2, st.Delegations)
	assert.Equal(t, int64(52), st.EstimatedTokens)
	assert.Equal(t, 200*time.Millisecond, st.TotalLatency)
	assert.Equal(t, 1, snap["category:coding"].Failures)
}

func TestAuditLogAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	ctx := context.Background()

	log := NewAuditLog(path)
	for i := 0; i < 5; i++ {
		log.Append(ctx, ports.AuditEvent{
			Timestamp: time.Now(),
			Provider:  "github-copilot",
			Reason:    "authenticated paid provider blocked",
		})
	}

	events := log.Recent(ctx, 3)
	assert.Len(t, events, 3)
	assert.Equal(t, "github-copilot", events[0].Provider)

	all := log.Recent(ctx, 0)
	assert.Len(t, all, 5)
}
