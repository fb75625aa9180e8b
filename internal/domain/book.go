// Package domain holds the value types shared by the catalog, the book manager,
// the contact form and the team directory.
package domain

import "strings"

// Genre is a member of the closed set of catalog genres.
type Genre string

// Genres in the order the seed step cycles through them.
const (
	GenreFiction    Genre = "fiction"
	GenreNonFiction Genre = "non-fiction"
	GenreBiography  Genre = "biography"
	GenreTechnical  Genre = "technical"
	GenreChildren   Genre = "children"
	GenrePoetry     Genre = "poetry"
)

// AllGenres is the closed genre set, in seed cycle order.
var AllGenres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreBiography,
	GenreTechnical,
	GenreChildren,
	GenrePoetry,
}

var genreLabels = map[Genre]string{
	GenreFiction:    "Fiction",
	GenreNonFiction: "Non-fiction",
	GenreBiography:  "Biography",
	GenreTechnical:  "Technical",
	GenreChildren:   "Children",
	GenrePoetry:     "Poetry",
}

// Legacy keys used by the original front-end.
var genreAliases = map[string]Genre{
	"ficcao":     GenreFiction,
	"nao-ficcao": GenreNonFiction,
	"biografia":  GenreBiography,
	"tecnico":    GenreTechnical,
	"infantil":   GenreChildren,
	"poesia":     GenrePoetry,
}

// Valid reports whether g belongs to the closed set.
func (g Genre) Valid() bool {
	_, ok := genreLabels[g]
	return ok
}

// Label returns the display name of the genre.
func (g Genre) Label() string {
	if label, ok := genreLabels[g]; ok {
		return label
	}
	return string(g)
}

// ParseGenre accepts canonical keys as well as the legacy Portuguese keys.
func ParseGenre(s string) (Genre, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if g := Genre(key); g.Valid() {
		return g, true
	}
	g, ok := genreAliases[key]
	return g, ok
}

// Book is a catalog record. Records are never mutated once produced by the seed step;
// the book manager works on copies.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year"`
	Genre       Genre  `json:"genre"`
	Rating      string `json:"rating,omitempty"`
	Pages       int    `json:"pages,omitempty"`
}
