// Package filter derives the visible and featured subsets of a catalog.
// Every function here is pure: the result depends only on the arguments, keeps the
// input order, and never aliases the input slice.
package filter

import (
	"strings"

	"nexus/internal/catalog"
)

// Visible returns the games whose title contains query (case-insensitively) and whose
// category matches category. An empty query matches every title; CategoryAll matches
// every category.
func Visible(games []catalog.Game, query string, category catalog.Category) []catalog.Game {
	needle := strings.ToLower(query)
	out := make([]catalog.Game, 0, len(games))
	for _, g := range games {
		if matchesLowered(g, needle) && MatchesCategory(g, category) {
			out = append(out, g)
		}
	}
	return out
}

// MatchesText reports whether query is a case-insensitive substring of the title.
func MatchesText(g catalog.Game, query string) bool {
	return matchesLowered(g, strings.ToLower(query))
}

func matchesLowered(g catalog.Game, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.Title), needle)
}

// MatchesCategory reports whether g belongs to category, treating CategoryAll as a wildcard.
func MatchesCategory(g catalog.Game, category catalog.Category) bool {
	return category == catalog.CategoryAll || g.Category == category
}

// Featured returns the games flagged as featured, in input order.
func Featured(games []catalog.Game) []catalog.Game {
	out := make([]catalog.Game, 0)
	for _, g := range games {
		if g.Featured {
			out = append(out, g)
		}
	}
	return out
}
