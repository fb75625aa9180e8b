// Package util provides small string helpers shared by services.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorRe  = regexp.MustCompile(`[\s_/.]+`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedDash = regexp.MustCompile(`-+`)
)

// foldAccents builds a fresh chain per call; transform chains keep buffers and are not
// safe for concurrent use.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Slugify turns a display name or user input into a URL slug.
//
// Accents are folded before anything else, so Portuguese names keep their letters:
//
//	"Ana Souza"        -> "ana-souza"
//	"Débora Conceição" -> "debora-conceicao"
//	"bruno_lima"       -> "bruno-lima"
//	"  --Carla!! "     -> "carla"
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = foldAccents(s)

	s = separatorRe.ReplaceAllString(s, "-")
	s = nonSlugRe.ReplaceAllString(s, "")
	s = repeatedDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
