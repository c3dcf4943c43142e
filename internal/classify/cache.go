// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// Cache is the durable classification store, a YAML document mapping a
// composite key ("ik:<inchikey>" or "smiles:<smiles>") to a normalized
// classification. Every Put rewrites the whole document so a crash never
// loses a confirmed result. That full rewrite per insert is a known
// scaling limit for batches far beyond the thousands of entries this tool
// handles; replacing it would change durability semantics.
type Cache struct {
	path    string
	entries map[string]types.Classification
}

// OpenCache loads the cache document at path. A missing, unreadable, or
// corrupt document yields an empty cache: corruption is recoverable data
// loss, not fatal, and the next Put overwrites the bad document.
func OpenCache(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]types.Classification),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := yaml.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]types.Classification)
	}
	if c.entries == nil {
		c.entries = make(map[string]types.Classification)
	}
	return c
}

// Get returns the cached classification for key.
func (c *Cache) Get(key string) (types.Classification, bool) {
	cls, ok := c.entries[key]
	return cls, ok
}

// Put stores the classification and immediately persists the whole cache
// (write-through).
func (c *Cache) Put(key string, cls types.Classification) error {
	c.entries[key] = cls

	data, err := yaml.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache %s: %w", c.path, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }
