package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState(numberedBooks(50), 0)

	assert.Equal(t, DefaultPageSize, s.PageSize)
	assert.Equal(t, CategoryAll, s.Category)
	assert.Equal(t, SortTitle, s.SortKey)
	assert.Equal(t, 1, s.Page)
	assert.Len(t, s.Working, 50)
}

func TestState_FiftyRecordsScenario(t *testing.T) {
	s := NewState(numberedBooks(50), 12)

	assert.Equal(t, 5, s.TotalPages())
	assert.Equal(t, idRange(1, 12), ids(s.Visible()))

	s = Apply(s, ChangePage{Page: 5})
	assert.Equal(t, 5, s.Page)
	assert.Equal(t, idRange(49, 50), ids(s.Visible()))
}

func TestState_OutOfRangePageIsIgnored(t *testing.T) {
	s := Apply(NewState(numberedBooks(50), 12), ChangePage{Page: 3})

	for _, page := range []int{0, -1, 6} {
		next, effects := Step(s, ChangePage{Page: page})
		assert.Equal(t, s, next, "page %d", page)
		assert.Zero(t, effects)
	}

	empty := NewState(nil, 12)
	assert.Equal(t, empty, Apply(empty, ChangePage{Page: 1}))
}

func TestState_PageChangeScrollsToList(t *testing.T) {
	_, effects := Step(NewState(numberedBooks(30), 12), ChangePage{Page: 2})

	assert.True(t, effects.Has(EffectRender))
	assert.True(t, effects.Has(EffectScrollToList))
	assert.False(t, effects.Has(EffectStats))
}

func TestState_QueryAndCategoryResetPage(t *testing.T) {
	base := Apply(NewState(numberedBooks(50), 12), ChangePage{Page: 4})
	require.Equal(t, 4, base.Page)

	byQuery, effects := Step(base, SetQuery{Query: "book"})
	assert.Equal(t, 1, byQuery.Page)
	assert.True(t, effects.Has(EffectStats))

	byCategory := Apply(base, SetCategory{Category: string(domain.GenrePoetry)})
	assert.Equal(t, 1, byCategory.Page)
	for _, b := range byCategory.Working {
		assert.Equal(t, domain.GenrePoetry, b.Genre)
	}
}

func TestState_SortKeepsPage(t *testing.T) {
	base := Apply(NewState(numberedBooks(50), 12), ChangePage{Page: 3})

	next, effects := Step(base, SetSort{Key: SortYear})

	assert.Equal(t, 3, next.Page)
	assert.Equal(t, SortYear, next.SortKey)
	assert.True(t, effects.Has(EffectRender))
	assert.False(t, effects.Has(EffectStats))
	assert.Equal(t, ids(Sorted(base.Working, SortYear)), ids(next.Working))
}

func TestState_SortSurvivesRefilter(t *testing.T) {
	s := Apply(NewState(numberedBooks(50), 12), SetSort{Key: SortYearDesc})
	s = Apply(s, SetCategory{Category: "fiction"})

	for i := 1; i < len(s.Working); i++ {
		assert.LessOrEqual(t, s.Working[i-1].Year, s.Working[i].Year)
	}
}

func TestState_TransitionsDoNotMutateInput(t *testing.T) {
	base := NewState(numberedBooks(30), 12)
	before := ids(base.Working)

	_ = Apply(base, SetSort{Key: SortYear})
	_ = Apply(base, SetQuery{Query: "07"})
	_ = Apply(base, Load{Books: numberedBooks(5)})

	assert.Equal(t, before, ids(base.Working))
	assert.Len(t, base.Source, 30)
}

func TestState_Clear(t *testing.T) {
	s := NewState(numberedBooks(50), 12)
	s = Apply(s, SetQuery{Query: "book 1"})
	s = Apply(s, SetCategory{Category: "fiction"})
	s = Apply(s, SetSort{Key: SortYear})

	s = Apply(s, Clear{})

	assert.Equal(t, "", s.Query)
	assert.Equal(t, CategoryAll, s.Category)
	assert.Equal(t, SortTitle, s.SortKey)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, idRange(1, 50), ids(s.Working))
}

func TestState_LoadReplacesSource(t *testing.T) {
	s := Apply(NewState(numberedBooks(50), 12), SetQuery{Query: "book 0"})
	s = Apply(s, ChangePage{Page: 1})

	s = Apply(s, Load{Books: numberedBooks(20)})

	assert.Len(t, s.Source, 20)
	assert.Equal(t, "book 0", s.Query)
	assert.Equal(t, idRange(1, 9), ids(s.Working))
	assert.Equal(t, 1, s.Page)
}

func TestState_StatsFollowWorkingSet(t *testing.T) {
	s := NewState(numberedBooks(50), 12)
	assert.Equal(t, Stats{Total: 50, Authors: 20, Genres: 6}, s.Stats())

	s = Apply(s, SetCategory{Category: "children"})
	stats := s.Stats()
	assert.Equal(t, len(s.Working), stats.Total)
	assert.Equal(t, 1, stats.Genres)
}

func TestStep_NilEvent(t *testing.T) {
	s := NewState(numberedBooks(3), 12)
	next, effects := Step(s, nil)
	assert.Equal(t, s, next)
	assert.Zero(t, effects)
}
