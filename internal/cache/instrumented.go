package cache

// instrumentedCache decorates a Cache with Prometheus counters for hits and
// misses under the configured group label. Keeping the counting here means
// callers never touch the metric objects themselves.
type instrumentedCache struct {
	inner Cache
	group string
}

// newInstrumentedCache wraps inner and registers a lazy entries collector
// that calls inner.Len() at scrape time. Reading the size on demand keeps
// the gauge honest for providers whose entries expire outside the process,
// like Redis.
func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *instrumentedCache) Contains(key string) bool {
	return c.inner.Contains(key)
}

func (c *instrumentedCache) Len() int {
	return c.inner.Len()
}

// Close drops the entries collector before closing the wrapped cache.
func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.inner.Close()
}
