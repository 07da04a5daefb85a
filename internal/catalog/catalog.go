// Package catalog holds the set of index identifiers the NSE history endpoint accepts.
package catalog

import (
	"sort"

	"IndexCompare/internal/model"
)

// Group is a named list of index identifiers.
type Group struct {
	Name string
	IDs  []string
}

// Catalog is an immutable set of known index identifiers, partitioned into groups.
// The zero value is an empty catalog.
type Catalog struct {
	groups []Group
	index  map[string]string // id -> group name
}

// New builds a catalog from groups. An identifier listed in more than one group is kept
// in the first group that lists it.
func New(groups ...Group) Catalog {
	c := Catalog{index: make(map[string]string)}
	for _, g := range groups {
		ids := make([]string, 0, len(g.IDs))
		for _, id := range g.IDs {
			if _, dup := c.index[id]; dup {
				continue
			}
			c.index[id] = g.Name
			ids = append(ids, id)
		}
		c.groups = append(c.groups, Group{Name: g.Name, IDs: ids})
	}
	return c
}

// Contains reports whether id is a known index.
func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// GroupOf returns the group name of id.
func (c Catalog) GroupOf(id string) (string, bool) {
	g, ok := c.index[id]
	return g, ok
}

// Validate returns a *model.SeriesError listing the catalog when id is unknown.
func (c Catalog) Validate(id string) error {
	if c.Contains(id) {
		return nil
	}
	return &model.SeriesError{ID: id, Known: c.IDs()}
}

// IDs returns every identifier in group order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c.index))
	for _, g := range c.groups {
		ids = append(ids, g.IDs...)
	}
	return ids
}

// Groups returns a copy of the groups.
func (c Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Name: g.Name, IDs: append([]string(nil), g.IDs...)}
	}
	return out
}

// Len returns the number of identifiers.
func (c Catalog) Len() int { return len(c.index) }

// Sorted returns every identifier in lexical order.
func (c Catalog) Sorted() []string {
	ids := c.IDs()
	sort.Strings(ids)
	return ids
}
