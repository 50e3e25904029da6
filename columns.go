package main

import "sort"

// Well-known columns pinned to the front of the catalog, in this order.
var priorityColumns = []string{"time", "level", "message"}

// ColumnCatalog is the ordered set of field names observed across a
// dataset. The well-known names time, level and message come first, in
// that fixed relative order, when present; every other observed name
// follows in ascending lexicographic order. No name appears twice.
type ColumnCatalog struct {
	seen    map[string]bool
	ordered []string
}

func NewColumnCatalog() *ColumnCatalog {
	return &ColumnCatalog{seen: make(map[string]bool)}
}

// Update unions the field names of a batch into the catalog and
// reasserts the ordering invariant. Names observed by earlier calls
// are retained even when absent from the new batch.
func (c *ColumnCatalog) Update(batch []*Record) {
	for _, rec := range batch {
		for _, key := range rec.Keys() {
			c.seen[key] = true
		}
	}

	rest := make([]string, 0, len(c.seen))
	for name := range c.seen {
		if !isPriorityColumn(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	c.ordered = c.ordered[:0]
	for _, name := range priorityColumns {
		if c.seen[name] {
			c.ordered = append(c.ordered, name)
		}
	}
	c.ordered = append(c.ordered, rest...)
}

// Columns returns the ordered column names. The returned slice is
// shared; callers must not mutate it.
func (c *ColumnCatalog) Columns() []string {
	return c.ordered
}

func (c *ColumnCatalog) Len() int {
	return len(c.ordered)
}

func isPriorityColumn(name string) bool {
	for _, p := range priorityColumns {
		if name == p {
			return true
		}
	}
	return false
}
