package catalog

import (
	"fmt"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// numberedItems returns n raw items titled "Book 01", "Book 02", ... so that title
// order matches id order.
func numberedItems(n int) []RawItem {
	items := make([]RawItem, n)
	for i := range items {
		items[i] = RawItem{
			ID:     int64(i + 1),
			UserID: int64(i/10 + 1),
			Title:  fmt.Sprintf("Book %02d", i+1),
			Body:   fmt.Sprintf("body of book %d", i+1),
		}
	}
	return items
}

func numberedBooks(n int) []domain.Book {
	return FromItems(numberedItems(n), n)
}

func ids(books []domain.Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func idRange(from, to int64) []int64 {
	var out []int64
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
