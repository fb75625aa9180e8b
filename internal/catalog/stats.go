package catalog

import "github.com/bibliotecaonline/biblioteca-server/internal/domain"

// Stats summarizes the working set.
type Stats struct {
	Total   int `json:"total"`
	Authors int `json:"authors"`
	Genres  int `json:"genres"`
}

// ComputeStats counts records, distinct authors and distinct genres.
func ComputeStats(books []domain.Book) Stats {
	authors := make(map[string]struct{}, len(books))
	genres := make(map[domain.Genre]struct{}, len(domain.AllGenres))
	for _, b := range books {
		authors[b.Author] = struct{}{}
		genres[b.Genre] = struct{}{}
	}
	return Stats{Total: len(books), Authors: len(authors), Genres: len(genres)}
}
