package ephem

import (
	"sort"
	"sync"
	"time"

	"cloudeng.io/errors"
)

// cachedDataset stores a resident dataset.
type cachedDataset struct {
	ds       Dataset
	source   string
	loadedAt time.Time
}

// Cache holds loaded datasets keyed by name. Entries never expire: a
// dataset is immutable once loaded.
type Cache struct {
	mu   sync.RWMutex
	data map[string]*cachedDataset
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]*cachedDataset)}
}

// Get returns the resident dataset for name.
func (c *Cache) Get(name string) (Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[name]
	if !ok {
		return nil, false
	}
	return e.ds, true
}

// Put stores ds under name and returns the resident dataset. If another
// load won the race, its dataset is kept, the new one is closed, and the
// winner is returned.
func (c *Cache) Put(name, source string, ds Dataset) Dataset {
	c.mu.Lock()
	if e, ok := c.data[name]; ok {
		c.mu.Unlock()
		if e.ds != ds {
			_ = ds.Close()
		}
		return e.ds
	}
	c.data[name] = &cachedDataset{ds: ds, source: source, loadedAt: time.Now()}
	c.mu.Unlock()
	return ds
}

// CacheEntry describes a resident dataset.
type CacheEntry struct {
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Entries lists resident datasets sorted by name.
func (c *Cache) Entries() []CacheEntry {
	c.mu.RLock()
	out := make([]CacheEntry, 0, len(c.data))
	for name, e := range c.data {
		out = append(out, CacheEntry{Name: name, Source: e.source, LoadedAt: e.loadedAt})
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Close closes and evicts every resident dataset.
func (c *Cache) Close() error {
	c.mu.Lock()
	data := c.data
	c.data = make(map[string]*cachedDataset)
	c.mu.Unlock()

	var errs errors.M
	for _, e := range data {
		errs.Append(e.ds.Close())
	}
	return errs.Err()
}
