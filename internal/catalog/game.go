// Package catalog holds the game library: record types, the closed category set,
// the sources the static catalog resource is read from, and the Store that loads it
// once per session.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category is one value of the closed category enumeration.
// CategoryAll is a wildcard used by filters; no record carries it.
type Category string

const (
	CategoryAll      Category = "All"
	CategoryAction   Category = "Action"
	CategoryPuzzle   Category = "Puzzle"
	CategorySports   Category = "Sports"
	CategoryArcade   Category = "Arcade"
	CategoryStrategy Category = "Strategy"
)

var categories = []Category{
	CategoryAll,
	CategoryAction,
	CategoryPuzzle,
	CategorySports,
	CategoryArcade,
	CategoryStrategy,
}

// Categories returns every category in display order, CategoryAll first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a wire value case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// IsTag reports whether c may appear on a record (any member except CategoryAll).
func (c Category) IsTag() bool {
	return c != CategoryAll && c.Valid()
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Next returns the category after c in display order, wrapping around.
func (c Category) Next() Category {
	return c.offset(1)
}

// Prev returns the category before c in display order, wrapping around.
func (c Category) Prev() Category {
	return c.offset(-1)
}

func (c Category) offset(delta int) Category {
	n := len(categories)
	for i, known := range categories {
		if known == c {
			return categories[((i+delta)%n+n)%n]
		}
	}
	return CategoryAll
}

// Game is one playable title.
type Game struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Thumbnail   string   `json:"thumbnail"`
	IframeURL   string   `json:"iframeUrl"`
	Featured    bool     `json:"featured,omitempty"`
}

// Rejection describes a record dropped by Decode.
type Rejection struct {
	Index  int
	ID     string
	Reason string
}

// Decode parses a catalog resource. The payload must be a JSON array; anything else
// is an error. Elements that are not objects, have no id, carry a category outside the
// enumeration (or the All wildcard), or repeat an earlier id are skipped and reported
// as rejections. Surviving records keep resource order.
func Decode(data []byte) ([]Game, []Rejection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, nil, fmt.Errorf("catalog is not a JSON array")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	games := make([]Game, 0, len(raw))
	var rejected []Rejection
	seen := make(map[string]struct{}, len(raw))

	for i, elem := range raw {
		var g Game
		if err := json.Unmarshal(elem, &g); err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		g.ID = strings.TrimSpace(g.ID)
		if g.ID == "" {
			rejected = append(rejected, Rejection{Index: i, Reason: "missing id"})
			continue
		}
		cat, err := ParseCategory(string(g.Category))
		if err != nil || !cat.IsTag() {
			rejected = append(rejected, Rejection{Index: i, ID: g.ID, Reason: fmt.Sprintf("invalid category %q", g.Category)})
			continue
		}
		g.Category = cat
		if _, dup := seen[g.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, ID: g.ID, Reason: "duplicate id"})
			continue
		}
		seen[g.ID] = struct{}{}
		games = append(games, g)
	}

	return games, rejected, nil
}
