package demographics

import (
	"strings"
	"sync"

	"github.com/sells-group/budget-cli/internal/model"
)

// Cache holds resolved demographics for the life of the process. Entries
// never expire; callers clear them explicitly.
type Cache struct {
	mu      sync.Mutex
	entries map[string]model.AreaDemographics
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]model.AreaDemographics)}
}

// Get returns the entry for zip.
func (c *Cache) Get(zip string) (model.AreaDemographics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[strings.TrimSpace(zip)]
	return d, ok
}

// Put stores d under zip, replacing any previous entry.
func (c *Cache) Put(zip string, d model.AreaDemographics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.TrimSpace(zip)] = d
}

// Clear removes the entry for zip.
func (c *Cache) Clear(zip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, strings.TrimSpace(zip))
}

// ClearAll removes every entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
