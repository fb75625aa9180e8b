package catalog

import "github.com/bibliotecaonline/biblioteca-server/internal/domain"

// TotalPages returns ceil(n/pageSize), zero for an empty set.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// PageSlice returns the records visible on page (1-based). Out-of-range pages are empty.
func PageSlice(books []domain.Book, page, pageSize int) []domain.Book {
	if page < 1 || pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(books) {
		return nil
	}
	end := min(start+pageSize, len(books))
	return books[start:end:end]
}

// ControlKind identifies an element of the page-control bar.
type ControlKind string

// Kinds of page controls.
const (
	ControlPrev     ControlKind = "prev"
	ControlNext     ControlKind = "next"
	ControlPage     ControlKind = "page"
	ControlEllipsis ControlKind = "ellipsis"
)

// Control is one element of the page-control bar.
type Control struct {
	Kind     ControlKind `json:"kind"`
	Page     int         `json:"page,omitempty"`
	Active   bool        `json:"active,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
}

// PagerModel is the page-control layout for one view.
type PagerModel struct {
	Hidden     bool      `json:"hidden"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Prev       Control   `json:"prev"`
	Next       Control   `json:"next"`
	Items      []Control `json:"items"`
}

// pagerWindow is how many neighbours on each side of the current page get a number.
const pagerWindow = 2

// BuildPager lays out the page controls. Page 1, the last page and every page within
// two of the current one get a numbered control; a single ellipsis marks each gap.
// The whole bar is hidden when there is at most one page.
func BuildPager(page, totalPages int) PagerModel {
	m := PagerModel{
		Page:       page,
		TotalPages: totalPages,
		Prev:       Control{Kind: ControlPrev, Page: page - 1, Disabled: page <= 1},
		Next:       Control{Kind: ControlNext, Page: page + 1, Disabled: page >= totalPages},
	}
	if totalPages <= 1 {
		m.Hidden = true
		return m
	}

	for i := 1; i <= totalPages; i++ {
		switch {
		case i == 1 || i == totalPages || (i >= page-pagerWindow && i <= page+pagerWindow):
			m.Items = append(m.Items, Control{Kind: ControlPage, Page: i, Active: i == page})
		case i == page-pagerWindow-1 || i == page+pagerWindow+1:
			m.Items = append(m.Items, Control{Kind: ControlEllipsis})
		}
	}
	return m
}
