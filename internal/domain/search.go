package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	fuzzyMinQueryLen = 4
	fuzzyMaxDistance = 2
)

// MatchQuery reports whether the exercise title or one of its tags
// contains q, ignoring case. Queries of at least four runes also match a
// title word or tag within a small edit distance, so "relaxaton" finds
// "Relaxation".
func MatchQuery(e Exercise, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	candidates := append([]string{e.Title}, e.Tags...)
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}

	if utf8.RuneCountInString(q) < fuzzyMinQueryLen {
		return false
	}

	words := append(strings.Fields(e.Title), e.Tags...)
	for _, w := range words {
		if levenshtein.ComputeDistance(strings.ToLower(w), q) <= fuzzyMaxDistance {
			return true
		}
	}

	return false
}
