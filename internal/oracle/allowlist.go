package oracle

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/phorde/freefleet/internal/core/domain"
)

// AllowList is the instance-owned set of fully-qualified model ids known to
// be free regardless of adapter output. Entries can be added and removed at
// runtime; the remote community list merges in additively.
type AllowList struct {
	mu      sync.RWMutex
	models  map[string]struct{}
	version *version.Version
}

func NewAllowList(seed []string) *AllowList {
	l := &AllowList{models: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		l.models[id] = struct{}{}
	}
	return l
}

// LoadSeedFile reads a curated allow-list from a YAML document of the form
// `models: [provider/id, ...]`.
func LoadSeedFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Models []string `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse allow-list %s: %w", path, err)
	}
	return wrapper.Models, nil
}

func (l *AllowList) Add(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.models[id] = struct{}{}
}

func (l *AllowList) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.models, id)
}

func (l *AllowList) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.models[id]
	return ok
}

func (l *AllowList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.models)
}

func (l *AllowList) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.models))
	for id := range l.models {
		out = append(out, id)
	}
	return out
}

// MergeCommunity folds a remote community list into the allow-list and
// returns the number of new entries. A document whose version does not
// advance past the last merged one is ignored; local entries are never
// removed.
func (l *AllowList) MergeCommunity(list *domain.CommunityList) int {
	if list == nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if list.Version != "" {
		remote, err := version.NewVersion(list.Version)
		if err == nil {
			if l.version != nil && !remote.GreaterThan(l.version) {
				return 0
			}
			l.version = remote
		}
	}

	added := 0
	for _, id := range list.Models {
		if _, ok := l.models[id]; !ok {
			l.models[id] = struct{}{}
			added++
		}
	}
	return added
}
