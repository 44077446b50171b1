package core

import (
	"fmt"
	"sort"
	"sync"
)

// DatasetInfo describes one selectable dataset of the top-level menu.
type DatasetInfo struct {
	Key   string      // Unique identifier: "cves"
	Label string      // Menu label: "CVEs Dataset"
	Path  string      // CSV file path
	Kind  DatasetKind // How filtered rows are summarized
	Order int         // Menu position; lower first
}

// Catalog is the ordered set of datasets offered by the top-level menu.
// Choices 1..Len() select a dataset; QuitChoice ends the session.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]DatasetInfo
}

// NewCatalog creates a catalog holding infos.
func NewCatalog(infos ...DatasetInfo) *Catalog {
	c := &Catalog{entries: make(map[string]DatasetInfo)}
	for _, info := range infos {
		c.Register(info)
	}
	return c
}

// Register adds a dataset to the catalog.
// Panics if a dataset with the same key is already registered.
func (c *Catalog) Register(info DatasetInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[info.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", info.Key))
	}
	if info.Label == "" {
		info.Label = info.Key
	}
	c.entries[info.Key] = info
}

// Get returns a dataset by key.
// Returns false if not found.
func (c *Catalog) Get(key string) (DatasetInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[key]
	return info, ok
}

// All returns every dataset in menu order (Order, then key).
func (c *Catalog) All() []DatasetInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]DatasetInfo, 0, len(c.entries))
	for _, info := range c.entries {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// Choice resolves a 1-based top-level menu choice to a dataset.
// Returns false for the quit choice and anything out of range.
func (c *Catalog) Choice(choice int) (DatasetInfo, bool) {
	all := c.All()
	if choice < 1 || choice > len(all) {
		return DatasetInfo{}, false
	}
	return all[choice-1], true
}

// MenuChoice returns the 1-based top-level menu choice selecting key.
func (c *Catalog) MenuChoice(key string) (int, bool) {
	for i, info := range c.All() {
		if info.Key == key {
			return i + 1, true
		}
	}
	return 0, false
}

// Len returns the number of registered datasets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// QuitChoice returns the menu number that ends a session.
func (c *Catalog) QuitChoice() int {
	return c.Len() + 1
}
