// Package catalog is a registry of known validators.
//
// Validator packages register their types explicitly, for example with
// rules.Register(c). The catalog only describes validators: generated code
// never consults it. vgen lint uses it to flag invocations of unknown
// validators and vgen validators lists it.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	vgenerrors "ruleforge/vgen/pkg/annot/errors"
)

// Entry describes one validator type.
type Entry struct {
	// Name is the type name, the last segment of an invocation path.
	Name string `json:"name" yaml:"name"`
	// Path is the import path of the declaring package.
	Path string `json:"path" yaml:"path"`
	// Generic is true when the type takes a type parameter.
	Generic bool `json:"generic" yaml:"generic"`
	// Element is true when the type parameter is the element type of the
	// slice under validation rather than the field type itself.
	Element     bool   `json:"element,omitempty" yaml:"element,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// Catalog holds registered validators keyed by name.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds e. Registering the same name twice is an error.
func (c *Catalog) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("catalog: entry without a name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[e.Name]; ok {
		return fmt.Errorf("catalog: validator %q already registered by %s", e.Name, prev.Path)
	}
	c.entries[e.Name] = e
	return nil
}

// Lookup returns the entry registered under name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// Entries returns all entries sorted by name.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered validators.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Suggest returns a "did you mean" hint for an unknown validator name, or ""
// when the catalog is empty.
func (c *Catalog) Suggest(name string) string {
	c.mu.RLock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return vgenerrors.SuggestName(name, names)
}
