// Package memory holds in-process store implementations used when no
// durable backend is configured, and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/phorde/freefleet/internal/core/domain"
)

// VerdictCache is a map-backed verdict store.
type VerdictCache struct {
	mu       sync.RWMutex
	verdicts map[string]*domain.ModelMetadata
}

func NewVerdictCache() *VerdictCache {
	return &VerdictCache{verdicts: make(map[string]*domain.ModelMetadata)}
}

func (c *VerdictCache) Get(ctx context.Context, modelID string) (*domain.ModelMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.verdicts[modelID]
	return m, ok
}

func (c *VerdictCache) Put(ctx context.Context, meta *domain.ModelMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts[meta.ID] = meta
}

func (c *VerdictCache) Delete(ctx context.Context, modelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.verdicts, modelID)
}

// PolicyStore is a map-backed policy store.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*domain.ScrapedPolicy
}

func NewPolicyStore() *PolicyStore {
	return &PolicyStore{policies: make(map[string]*domain.ScrapedPolicy)}
}

func (s *PolicyStore) Get(ctx context.Context, providerID string) (*domain.ScrapedPolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[providerID]
	return p, ok
}

func (s *PolicyStore) Put(ctx context.Context, policy *domain.ScrapedPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.Provider] = policy
}
