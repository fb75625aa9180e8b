package catalog

import (
	"unicode/utf8"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// ExcerptLength is the number of description characters shown on a card.
const ExcerptLength = 150

// Card is the display form of one record.
type Card struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	Author     string       `json:"author"`
	Year       int          `json:"year"`
	Genre      domain.Genre `json:"genre"`
	GenreLabel string       `json:"genreLabel"`
	Rating     string       `json:"rating"`
	Pages      int          `json:"pages"`
	Excerpt    string       `json:"excerpt"`
}

// View is everything the presentation layer needs to draw one catalog page.
type View struct {
	Query      string     `json:"query"`
	Category   string     `json:"category"`
	SortKey    SortKey    `json:"sort"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	Cards      []Card     `json:"cards"`
	Pager      PagerModel `json:"pager"`
	Stats      Stats      `json:"stats"`
	Empty      bool       `json:"empty"`
}

// Render maps a state to its view. It reads the state only.
func Render(s State) View {
	visible := s.Visible()
	cards := make([]Card, len(visible))
	for i, b := range visible {
		cards[i] = CardFor(b)
	}

	total := s.TotalPages()
	return View{
		Query:      s.Query,
		Category:   s.Category,
		SortKey:    s.SortKey,
		Page:       s.Page,
		PageSize:   s.PageSize,
		TotalPages: total,
		Cards:      cards,
		Pager:      BuildPager(s.Page, total),
		Stats:      s.Stats(),
		Empty:      len(s.Working) == 0,
	}
}

// CardFor builds the card for one record.
func CardFor(b domain.Book) Card {
	return Card{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		Genre:      b.Genre,
		GenreLabel: b.Genre.Label(),
		Rating:     b.Rating,
		Pages:      b.Pages,
		Excerpt:    Excerpt(b.Description, ExcerptLength),
	}
}

// Excerpt cuts s to n characters and appends "..." when anything was cut.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
