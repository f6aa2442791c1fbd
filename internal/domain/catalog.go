package domain

import "context"

// CatalogEntry pairs an entity name with its sentiment record.
type CatalogEntry struct {
	Name   string
	Record SentimentRecord
}

// Catalog is the immutable, ordered mapping from entity name to sentiment record.
// Order follows the source document. A new Catalog replaces an old one wholesale.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog builds a catalog from entries in display order.
// Entry names must be unique; the caller is responsible for checking that.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]CatalogEntry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		c.index[e.Name] = i
	}
	return c
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in source order.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the record for name.
func (c *Catalog) Get(name string) (SentimentRecord, bool) {
	if c == nil {
		return SentimentRecord{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return SentimentRecord{}, false
	}
	return c.entries[i].Record, true
}

// Names returns the entity names in source order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// CatalogSource reads the raw sentiment artifact.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// DiagnosticSink receives load failures. Nothing else is reported to it.
type DiagnosticSink interface {
	Report(ctx context.Context, err error)
}

// EntityMeta is the static, compiled-in description of a tracked entity.
type EntityMeta struct {
	ReleaseWindow string
	Summary       string
}
