package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates an unconnected adapter from a config.
type Factory func(config Config) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an adapter available under a provider name. Provider
// packages call it from init. Registering a name twice panics.
func Register(provider string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	provider = strings.ToLower(provider)
	if factory == nil {
		panic("database: Register factory is nil")
	}
	if _, dup := registry[provider]; dup {
		panic("database: Register called twice for provider " + provider)
	}
	registry[provider] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the adapter for config.Provider and connects it.
func Open(ctx context.Context, config Config) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(config.Provider)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown database provider %q (registered: %s)",
			config.Provider, strings.Join(Providers(), ", "))
	}

	adapter, err := factory(config)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}
