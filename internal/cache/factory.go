package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ProviderConfig carries everything a provider constructor may need. Fields
// that a given provider has no use for are ignored.
type ProviderConfig struct {
	// Size caps the number of entries for capacity-bounded providers.
	Size int

	// TTL is how long entries live before they expire.
	TTL time.Duration

	// OnEvict is invoked for capacity evictions where the provider
	// supports them.
	OnEvict EvictCallback

	// Logger receives operational errors. Nil discards them.
	Logger Logger

	// RedisAddress is the Redis/Valkey host:port, e.g. "localhost:6379".
	RedisAddress string

	// RedisPassword authenticates against the Redis/Valkey server.
	RedisPassword string

	// RedisDB selects the Redis/Valkey database number.
	RedisDB int

	// Group names this cache instance in Prometheus metrics
	// (cache_hits_total, cache_misses_total and friends). Leaving it
	// empty skips instrumentation entirely.
	Group string
}

// Provider constructs a Cache from a ProviderConfig.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under the given name. Registering a
// nil provider or reusing a name panics; providers register themselves from
// init functions, so either is a programming error.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New builds a Cache through the named provider. A non-empty cfg.Group wraps
// the result with metric instrumentation: hit, miss, and eviction counters
// labelled with the group, plus an entries collector that reads Len() at
// scrape time rather than tracking a counter of its own.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	group := cfg.Group
	// Count evictions here so providers stay metrics-free.
	original := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if original != nil {
			original(key, value)
		}
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}

	return newInstrumentedCache(inner, group), nil
}

// RegisteredProviders returns the registered provider names in sorted order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
