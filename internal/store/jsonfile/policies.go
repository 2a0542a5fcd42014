package jsonfile

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

// PolicyStore persists scraped free-tier policies keyed by provider id.
type PolicyStore struct {
	path string
	log  *zap.Logger

	mu       sync.RWMutex
	policies map[string]*domain.ScrapedPolicy
}

func NewPolicyStore(path string) *PolicyStore {
	s := &PolicyStore{
		path:     path,
		log:      logger.Get().Named("policy-store"),
		policies: make(map[string]*domain.ScrapedPolicy),
	}

	var stored map[string]*domain.ScrapedPolicy
	if err := Read(path, &stored); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("could not load policy store, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	s.policies = stored
	return s
}

func (s *PolicyStore) Get(ctx context.Context, providerID string) (*domain.ScrapedPolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[providerID]
	return p, ok
}

func (s *PolicyStore) Put(ctx context.Context, policy *domain.ScrapedPolicy) {
	s.mu.Lock()
	s.policies[policy.Provider] = policy
	snapshot := make(map[string]*domain.ScrapedPolicy, len(s.policies))
	for k, v := range s.policies {
		snapshot[k] = v
	}
	s.mu.Unlock()

	if err := WriteAtomic(s.path, snapshot); err != nil {
		s.log.Warn("policy store write failed", zap.Error(err))
	}
}
