package jsonfile

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

// VerdictCache is a file-backed verdict store keyed by bare model id. The
// whole map lives in memory; every mutation rewrites the file. Write
// failures are logged and swallowed.
type VerdictCache struct {
	path string
	log  *zap.Logger

	mu       sync.RWMutex
	verdicts map[string]*domain.ModelMetadata
}

// NewVerdictCache loads any existing cache file at path. A missing or
// corrupt file starts the cache empty.
func NewVerdictCache(path string) *VerdictCache {
	c := &VerdictCache{
		path:     path,
		log:      logger.Get().Named("verdict-cache"),
		verdicts: make(map[string]*domain.ModelMetadata),
	}

	var stored map[string]*domain.ModelMetadata
	if err := Read(path, &stored); err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("could not load verdict cache, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return c
	}
	c.verdicts = stored
	return c
}

func (c *VerdictCache) Get(ctx context.Context, modelID string) (*domain.ModelMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.verdicts[modelID]
	return m, ok
}

func (c *VerdictCache) Put(ctx context.Context, meta *domain.ModelMetadata) {
	c.mu.Lock()
	c.verdicts[meta.ID] = meta
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := WriteAtomic(c.path, snapshot); err != nil {
		c.log.Warn("verdict cache write failed", zap.Error(err))
	}
}

func (c *VerdictCache) Delete(ctx context.Context, modelID string) {
	c.mu.Lock()
	delete(c.verdicts, modelID)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := WriteAtomic(c.path, snapshot); err != nil {
		c.log.Warn("verdict cache write failed", zap.Error(err))
	}
}

func (c *VerdictCache) snapshotLocked() map[string]*domain.ModelMetadata {
	snapshot := make(map[string]*domain.ModelMetadata, len(c.verdicts))
	for k, v := range c.verdicts {
		snapshot[k] = v
	}
	return snapshot
}
