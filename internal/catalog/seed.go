package catalog

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// RawItem is one entry of the seed source (the placeholder service's post shape).
type RawItem struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Authors is the fixed author table the seed step cycles through.
var Authors = [...]string{
	"Machado de Assis",
	"Clarice Lispector",
	"Jorge Amado",
	"Cecília Meireles",
	"Carlos Drummond de Andrade",
	"Manuel Bandeira",
	"Vinicius de Moraes",
	"José Saramago",
	"Gabriel García Márquez",
	"Pablo Neruda",
	"Julio Cortázar",
	"Mario Vargas Llosa",
	"Isabel Allende",
	"Stephen King",
	"J.K. Rowling",
	"George R.R. Martin",
	"Tolkien",
	"C.S. Lewis",
	"Umberto Eco",
	"Italo Calvino",
}

const (
	baseYear  = 1990
	yearCycle = 34
)

// DefaultSeedLimit is how many raw items the catalog keeps.
const DefaultSeedLimit = 50

// FromItems maps the first limit raw items to catalog records. Author, year and genre
// come from the item's position; rating and pages are derived from its id so the same
// item always produces the same record. Items repeating an earlier id are dropped.
func FromItems(items []RawItem, limit int) []domain.Book {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	books := make([]domain.Book, 0, limit)
	seen := make(map[int64]struct{}, limit)
	for index, item := range items[:limit] {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		books = append(books, domain.Book{
			ID:          item.ID,
			Title:       item.Title,
			Author:      Authors[index%len(Authors)],
			Description: item.Body,
			Year:        baseYear + index%yearCycle,
			Genre:       domain.AllGenres[index%len(domain.AllGenres)],
			Rating:      Rating(item.ID),
			Pages:       Pages(item.ID),
		})
	}
	return books
}

func identityHash(id int64) uint64 {
	return xxhash.Sum64String("book:" + strconv.FormatInt(id, 10))
}

// Rating returns a one-decimal rating in [3.0, 5.0) derived from id.
func Rating(id int64) string {
	tenths := 30 + identityHash(id)%20
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// Pages returns a page count in [100, 600) derived from id.
func Pages(id int64) int {
	return 100 + int((identityHash(id)>>32)%500)
}
