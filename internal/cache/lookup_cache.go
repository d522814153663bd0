package cache

import (
	"sort"
	"strings"
	"sync"
)

// LookupCache memoizes resolved parameter curves for the lifetime of one
// calculation run. Parameter tables are read-only once loaded, so entries are
// never invalidated mid-run and the cache is safe to share across concurrent
// workers.
type LookupCache struct {
	mu     sync.RWMutex
	curves map[string][]float64
}

// NewLookupCache creates an empty lookup cache.
func NewLookupCache() *LookupCache {
	return &LookupCache{
		curves: make(map[string][]float64),
	}
}

// Key builds a cache key from table name, scenario and the driver value tuple.
// Drivers are sorted by name so map iteration order cannot split entries.
func Key(table, scenario string, drivers map[string]string) string {
	parts := make([]string, 0, len(drivers)+2)
	parts = append(parts, table, scenario)
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+drivers[name])
	}
	return strings.Join(parts, "\x1f")
}

// GetCurve returns a cached curve if present.
func (c *LookupCache) GetCurve(key string) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	curve, ok := c.curves[key]
	return curve, ok
}

// SetCurve stores a resolved curve.
func (c *LookupCache) SetCurve(key string, curve []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.curves[key] = curve
}

// Clear drops all cached curves. Called between runs when tables are reloaded.
func (c *LookupCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.curves = make(map[string][]float64)
}
