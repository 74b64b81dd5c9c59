// Package coordinator owns the transient browsing state of a session: the search text,
// the active category, the selected game, and the Browsing/Playing mode derived from it.
//
// A Coordinator has a single owner (the UI event loop) and is not safe for concurrent use.
// Visible, featured and heading values are derived on every call from the catalog and
// the query; they are memoized by input tuple but never stored as independent state.
package coordinator

import (
	"slices"

	"nexus/internal/catalog"
	"nexus/internal/filter"
)

// Mode is the presentation mode.
type Mode int

const (
	Browsing Mode = iota
	Playing
)

func (m Mode) String() string {
	if m == Playing {
		return "playing"
	}
	return "browsing"
}

// Catalog is the read side of the catalog store.
type Catalog interface {
	Games() []catalog.Game
	Revision() uint64
}

// Query is the user's filter input.
type Query struct {
	Search   string
	Category catalog.Category
}

// DefaultQuery is the unfiltered query.
func DefaultQuery() Query {
	return Query{Category: catalog.CategoryAll}
}

type memoKey struct {
	revision uint64
	query    Query
}

type memo struct {
	valid    bool
	key      memoKey
	visible  []catalog.Game
	featured []catalog.Game
}

// Coordinator holds query and selection state over a catalog.
type Coordinator struct {
	catalog  Catalog
	query    Query
	selected *catalog.Game

	scrollTop bool
	memo      memo
}

// New creates a coordinator in Browsing mode with the default query.
func New(c Catalog) *Coordinator {
	return &Coordinator{catalog: c, query: DefaultQuery()}
}

// Mode reports Playing while a game is selected, Browsing otherwise.
func (c *Coordinator) Mode() Mode {
	if c.selected != nil {
		return Playing
	}
	return Browsing
}

// Query returns the current query.
func (c *Coordinator) Query() Query { return c.query }

// Selected returns the selected game, if any.
func (c *Coordinator) Selected() (catalog.Game, bool) {
	if c.selected == nil {
		return catalog.Game{}, false
	}
	return *c.selected, true
}

// SelectGame switches to Playing(g) and requests a scroll to the top.
func (c *Coordinator) SelectGame(g catalog.Game) {
	c.selected = &g
	c.scrollTop = true
}

// SelectByID selects the catalog game with id. It returns false when no such game exists.
func (c *Coordinator) SelectByID(id string) bool {
	for _, g := range c.catalog.Games() {
		if g.ID == id {
			c.SelectGame(g)
			return true
		}
	}
	return false
}

// CloseGame returns to Browsing. Search and category are kept.
func (c *Coordinator) CloseGame() {
	c.selected = nil
}

// ResetAll returns to Browsing with the default query and no selection.
func (c *Coordinator) ResetAll() {
	c.selected = nil
	c.query = DefaultQuery()
}

// SetSearch updates the search text. The mode is unchanged.
func (c *Coordinator) SetSearch(text string) {
	c.query.Search = text
}

// SetCategory updates the category filter. Values outside the enumeration are ignored.
func (c *Coordinator) SetCategory(cat catalog.Category) {
	if !cat.Valid() {
		return
	}
	c.query.Category = cat
}

// TakeScrollTop reports whether a selection requested a scroll reset since the last call.
func (c *Coordinator) TakeScrollTop() bool {
	v := c.scrollTop
	c.scrollTop = false
	return v
}

// Visible returns the games matching the current query, in catalog order.
func (c *Coordinator) Visible() []catalog.Game {
	c.derive()
	return slices.Clone(c.memo.visible)
}

// Featured returns the featured games, in catalog order. It depends only on the catalog.
func (c *Coordinator) Featured() []catalog.Game {
	c.derive()
	return slices.Clone(c.memo.featured)
}

// ShowFeatured reports whether the featured section is shown: only at the default
// (unfiltered) view, and only when at least one game is featured.
func (c *Coordinator) ShowFeatured() bool {
	if c.query.Search != "" || c.query.Category != catalog.CategoryAll {
		return false
	}
	c.derive()
	return len(c.memo.featured) > 0
}

// Heading is the title of the results section.
func (c *Coordinator) Heading() string {
	if c.query.Search != "" {
		return "Search Results"
	}
	return string(c.query.Category) + " Games"
}

// EmptyResult reports whether the current query yields no games.
func (c *Coordinator) EmptyResult() bool {
	c.derive()
	return len(c.memo.visible) == 0
}

// Revision is the catalog revision the derived values are computed from.
func (c *Coordinator) Revision() uint64 {
	return c.catalog.Revision()
}

func (c *Coordinator) derive() {
	key := memoKey{revision: c.catalog.Revision(), query: c.query}
	if c.memo.valid && c.memo.key == key {
		return
	}
	games := c.catalog.Games()
	c.memo = memo{
		valid:    true,
		key:      key,
		visible:  filter.Visible(games, c.query.Search, c.query.Category),
		featured: filter.Featured(games),
	}
}
