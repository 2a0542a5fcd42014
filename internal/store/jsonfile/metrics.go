package jsonfile

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/logger"
)

// MetricsStore accumulates per-model usage counters in a JSON file.
// Failure metrics are keyed by "category:<name>" so they never collide
// with model ids.
type MetricsStore struct {
	path string
	log  *zap.Logger

	mu    sync.Mutex
	stats map[string]ports.UsageStats
}

func NewMetricsStore(path string) *MetricsStore {
	s := &MetricsStore{
		path:  path,
		log:   logger.Get().Named("metrics"),
		stats: make(map[string]ports.UsageStats),
	}

	var stored map[string]ports.UsageStats
	if err := Read(path, &stored); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("could not load metrics, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	s.stats = stored
	return s
}

func (s *MetricsStore) RecordSuccess(ctx context.Context, modelID string, latency time.Duration, estimatedTokens int) {
	s.mu.Lock()
	st := s.stats[modelID]
	st.Delegations++
	st.EstimatedTokens += int64(estimatedTokens)
	st.TotalLatency += latency
	s.stats[modelID] = st
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(snapshot)
}

func (s *MetricsStore) RecordFailure(ctx context.Context, category string) {
	s.mu.Lock()
	key := "category:" + category
	st := s.stats[key]
	st.Failures++
	s.stats[key] = st
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(snapshot)
}

func (s *MetricsStore) Snapshot(ctx context.Context) map[string]ports.UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *MetricsStore) snapshotLocked() map[string]ports.UsageStats {
	out := make(map[string]ports.UsageStats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

func (s *MetricsStore) flush(snapshot map[string]ports.UsageStats) {
	if err := WriteAtomic(s.path, snapshot); err != nil {
		s.log.Warn("metrics write failed", zap.Error(err))
	}
}
