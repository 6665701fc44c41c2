package cache

// EvictCallback is called when an entry is dropped to make room for another.
// Only capacity-bounded providers report evictions; the Redis provider lets
// the server expire entries and never calls it.
type EvictCallback func(key string, value []byte)

// Logger receives failures from cache operations, which deliberately have no
// error returns of their own. A nil Logger silences them.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a byte-value store with TTL expiry. The memory provider adds LRU
// capacity bounds on top; external providers may rely on server-side expiry
// instead.
type Cache interface {
	// Get retrieves the value stored under key, reporting whether it was found.
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte)

	// Contains reports whether key is present without counting as an access.
	Contains(key string) bool

	// Len returns the current number of entries. External providers count
	// only the keys in their own namespace.
	Len() int

	// Close releases resources such as network connections. In-memory
	// providers treat it as a no-op.
	Close() error
}
