package catalog

import (
	"slices"
	"strings"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// NormalizeQuery trims surrounding whitespace and lowercases the query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter returns the records of source that belong to category and contain query in
// their title, author or description. The result never aliases source.
//
// An empty query with category "all" returns a plain copy of source.
func Filter(source []domain.Book, query, category string) []domain.Book {
	q := NormalizeQuery(query)
	if category == "" {
		category = CategoryAll
	}

	if q == "" && category == CategoryAll {
		return slices.Clone(source)
	}

	out := make([]domain.Book, 0, len(source))
	for _, b := range source {
		if Matches(b, q, category) {
			out = append(out, b)
		}
	}
	return out
}

// Matches reports whether b satisfies both predicates. q must already be normalized.
func Matches(b domain.Book, q, category string) bool {
	if category != CategoryAll && string(b.Genre) != category {
		return false
	}
	return MatchesQuery(b, q)
}

// MatchesQuery is the free-text half of the filter. A missing description simply
// does not match; title and author are still checked.
func MatchesQuery(b domain.Book, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
		return true
	}
	return b.Description != "" && strings.Contains(strings.ToLower(b.Description), q)
}
