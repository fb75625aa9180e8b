package catalog

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// SortKey selects the comparator applied to the working set.
type SortKey string

// Sort keys accepted by the catalog.
//
// The year labels are inverted on purpose: "year" lists newest first and "year-desc"
// lists oldest first. Clients depend on this mapping.
const (
	SortTitle    SortKey = "title"
	SortAuthor   SortKey = "author"
	SortYear     SortKey = "year"
	SortYearDesc SortKey = "year-desc"
)

// SortKeys lists the accepted keys in menu order.
var SortKeys = []SortKey{SortTitle, SortAuthor, SortYear, SortYearDesc}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// Collation used for title and author ordering.
var collationTag = language.BrazilianPortuguese

// Sort orders books in place by key. The sort is stable, so records with equal keys keep
// their relative order. Unknown keys leave the slice untouched.
func Sort(books []domain.Book, key SortKey) {
	switch key {
	case SortTitle, SortAuthor:
		// collate.Collator is not safe for concurrent use.
		c := collate.New(collationTag)
		field := func(b domain.Book) string { return b.Title }
		if key == SortAuthor {
			field = func(b domain.Book) string { return b.Author }
		}
		slices.SortStableFunc(books, func(a, b domain.Book) int {
			return c.CompareString(field(a), field(b))
		})
	case SortYear:
		slices.SortStableFunc(books, func(a, b domain.Book) int {
			return cmp.Compare(b.Year, a.Year)
		})
	case SortYearDesc:
		slices.SortStableFunc(books, func(a, b domain.Book) int {
			return cmp.Compare(a.Year, b.Year)
		})
	}
}

// Sorted returns a sorted copy of books.
func Sorted(books []domain.Book, key SortKey) []domain.Book {
	out := slices.Clone(books)
	Sort(out, key)
	return out
}
