package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/logger"
)

// AuditLog appends blocked-model events to a JSONL file, one object per
// line. Appends are best-effort: failures are logged and swallowed.
type AuditLog struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{
		path: path,
		log:  logger.Get().Named("audit"),
	}
}

func (a *AuditLog) Append(ctx context.Context, event ports.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		a.log.Warn("audit log mkdir failed", zap.Error(err))
		return
	}

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		a.log.Warn("audit log open failed", zap.Error(err))
		return
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		a.log.Warn("audit event marshal failed", zap.Error(err))
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		a.log.Warn("audit log append failed", zap.Error(err))
	}
}

// Recent returns the last n events in file order, oldest first.
func (a *AuditLog) Recent(ctx context.Context, n int) []ports.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var events []ports.AuditEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev ports.AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			// Skip torn or hand-edited lines.
			continue
		}
		events = append(events, ev)
	}

	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events
}
