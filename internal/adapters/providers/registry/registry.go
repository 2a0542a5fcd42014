// Package registry maps provider type names to adapter factories. Provider
// packages register themselves from init; the scout resolves types at
// startup with an explicit generic fallback.
package registry

import (
	"fmt"
	"sync"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
)

// Factory creates a ProviderAdapter from the unified configuration shape.
type Factory func(cfg domain.ProviderConfig) (ports.ProviderAdapter, error)

// GenericType is the registry key of the OpenAI-compatible fallback adapter.
const GenericType = "generic"

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a provider factory available under a type name.
func Register(providerType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider factory %q already registered", providerType))
	}
	factories[providerType] = f
}

// Get retrieves the factory for a provider type.
func Get(providerType string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[providerType]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type %q", providerType)
	}
	return f, nil
}

// Resolve returns the factory for a type, falling back to the generic
// OpenAI-compatible adapter for unknown types.
func Resolve(providerType string) (Factory, error) {
	if f, err := Get(providerType); err == nil {
		return f, nil
	}
	return Get(GenericType)
}
