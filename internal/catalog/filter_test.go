package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

var filterFixture = []domain.Book{
	{ID: 1, Title: "It", Author: "Stephen King", Description: "A clown in Derry", Genre: domain.GenreFiction},
	{ID: 2, Title: "On Writing", Author: "Stephen King", Description: "Memoir of the craft", Genre: domain.GenreBiography},
	{ID: 3, Title: "Ensaio sobre a Cegueira", Author: "José Saramago", Genre: domain.GenreFiction},
	{ID: 4, Title: "Go in Practice", Author: "Matt Butcher", Description: "Kingdoms of goroutines", Genre: domain.GenreTechnical},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		want     []int64
	}{
		{name: "empty query all categories", query: "", category: CategoryAll, want: []int64{1, 2, 3, 4}},
		{name: "blank category means all", query: "", category: "", want: []int64{1, 2, 3, 4}},
		{name: "author match regardless of genre", query: "stephen king", category: CategoryAll, want: []int64{1, 2}},
		{name: "query is trimmed and lowercased", query: "  STEPHEN King ", category: CategoryAll, want: []int64{1, 2}},
		{name: "description match", query: "kingdoms", category: CategoryAll, want: []int64{4}},
		{name: "any field suffices", query: "king", category: CategoryAll, want: []int64{1, 2, 4}},
		{name: "category only", query: "", category: "fiction", want: []int64{1, 3}},
		{name: "query and category", query: "king", category: "biography", want: []int64{2}},
		{name: "missing description is not an error", query: "cegueira", category: CategoryAll, want: []int64{3}},
		{name: "unknown category matches nothing", query: "", category: "romance", want: []int64{}},
		{name: "no match", query: "tolkien", category: CategoryAll, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(filterFixture, tt.query, tt.category)
			assert.Equal(t, tt.want, append([]int64{}, ids(got)...))
		})
	}
}

func TestFilter_ReturnsIndependentCopy(t *testing.T) {
	source := []domain.Book{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}

	got := Filter(source, "", CategoryAll)
	got[0].Title = "changed"

	assert.Equal(t, "A", source[0].Title)
}
