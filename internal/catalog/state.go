package catalog

import (
	"slices"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// State is the complete view state of one catalog session.
//
// Source is replaced only by a Load event. Working is always derived from Source
// with the current Query, Category and SortKey.
type State struct {
	Source   []domain.Book
	Working  []domain.Book
	Query    string
	Category string
	SortKey  SortKey
	Page     int
	PageSize int
}

// NewState returns the initial state over source: no query, every category, sorted by title.
func NewState(source []domain.Book, pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := State{
		Source:   slices.Clone(source),
		Category: CategoryAll,
		SortKey:  SortTitle,
		Page:     1,
		PageSize: pageSize,
	}
	return s.refilter()
}

// TotalPages returns the page count of the working set.
func (s State) TotalPages() int {
	return TotalPages(len(s.Working), s.PageSize)
}

// Visible returns the records on the current page.
func (s State) Visible() []domain.Book {
	return PageSlice(s.Working, s.Page, s.PageSize)
}

// Stats summarizes the working set.
func (s State) Stats() Stats {
	return ComputeStats(s.Working)
}

// refilter recomputes Working from Source and goes back to the first page.
func (s State) refilter() State {
	s.Working = Filter(s.Source, s.Query, s.Category)
	Sort(s.Working, s.SortKey)
	s.Page = 1
	return s
}

// Effect is a side effect the presentation layer should perform after a transition.
type Effect uint8

// Effects produced by transitions.
const (
	// EffectRender means the visible list and the pager must be redrawn.
	EffectRender Effect = 1 << iota
	// EffectStats means the summary statistics changed.
	EffectStats
	// EffectScrollToList asks the view to scroll back to the top of the list.
	EffectScrollToList
)

// Has reports whether e includes flag.
func (e Effect) Has(flag Effect) bool {
	return e&flag != 0
}

// Event is an input to the state machine.
type Event interface {
	step(State) (State, Effect)
}

// SetQuery changes the free-text query.
type SetQuery struct{ Query string }

// SetCategory changes the genre filter. Use CategoryAll to clear it.
type SetCategory struct{ Category string }

// SetSort changes the comparator.
type SetSort struct{ Key SortKey }

// ChangePage moves to another page. Requests outside [1, TotalPages] are ignored.
type ChangePage struct{ Page int }

// Clear restores the default query, category and sort.
type Clear struct{}

// Load replaces the source set wholesale.
type Load struct{ Books []domain.Book }

func (e SetQuery) step(s State) (State, Effect) {
	s.Query = e.Query
	return s.refilter(), EffectRender | EffectStats
}

func (e SetCategory) step(s State) (State, Effect) {
	s.Category = e.Category
	if s.Category == "" {
		s.Category = CategoryAll
	}
	return s.refilter(), EffectRender | EffectStats
}

func (e SetSort) step(s State) (State, Effect) {
	s.SortKey = e.Key
	s.Working = Sorted(s.Working, e.Key)
	return s, EffectRender
}

func (e ChangePage) step(s State) (State, Effect) {
	if e.Page < 1 || e.Page > s.TotalPages() {
		return s, 0
	}
	s.Page = e.Page
	return s, EffectRender | EffectScrollToList
}

func (Clear) step(s State) (State, Effect) {
	s.Query = ""
	s.Category = CategoryAll
	s.SortKey = SortTitle
	return s.refilter(), EffectRender | EffectStats
}

func (e Load) step(s State) (State, Effect) {
	s.Source = slices.Clone(e.Books)
	return s.refilter(), EffectRender | EffectStats
}

// Step applies e to s and reports which effects the transition produced.
// A nil event or a rejected page change returns s unchanged with no effects.
func Step(s State, e Event) (State, Effect) {
	if e == nil {
		return s, 0
	}
	return e.step(s)
}

// Apply is Step without the effects.
func Apply(s State, e Event) State {
	next, _ := Step(s, e)
	return next
}
