// Package rediscache is a Redis-backed verdict cache for deployments that
// share one fleet state across processes.
package rediscache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

const keyPrefix = "freefleet:verdict:"

type VerdictCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewVerdictCache(addr, password string, db int) *VerdictCache {
	return &VerdictCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		log: logger.Get().Named("redis-cache"),
	}
}

func (c *VerdictCache) Get(ctx context.Context, modelID string) (*domain.ModelMetadata, bool) {
	data, err := c.client.Get(ctx, keyPrefix+modelID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.String("model", modelID), zap.Error(err))
		}
		return nil, false
	}

	var meta domain.ModelMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		c.log.Warn("corrupt verdict in redis", zap.String("model", modelID), zap.Error(err))
		return nil, false
	}
	return &meta, true
}

func (c *VerdictCache) Put(ctx context.Context, meta *domain.ModelMetadata) {
	data, err := json.Marshal(meta)
	if err != nil {
		c.log.Warn("verdict marshal failed", zap.Error(err))
		return
	}
	// Verdicts have no TTL; invalidation is an explicit Delete.
	if err := c.client.Set(ctx, keyPrefix+meta.ID, data, 0).Err(); err != nil {
		c.log.Warn("redis set failed", zap.String("model", meta.ID), zap.Error(err))
	}
}

func (c *VerdictCache) Delete(ctx context.Context, modelID string) {
	if err := c.client.Del(ctx, keyPrefix+modelID).Err(); err != nil {
		c.log.Warn("redis del failed", zap.String("model", modelID), zap.Error(err))
	}
}
