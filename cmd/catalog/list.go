package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

type listOptions struct {
	query    string
	genre    string
	sort     string
	page     int
	pageSize int
}

func newListCmd(flags *sourceFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "Print one catalog page",
		Args:    cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := flags.loadBooks(cmd.Context())
			if err != nil {
				return err
			}
			view := opts.view(books)
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "Search title, author and description")
	f.StringVarP(&opts.genre, "genre", "g", catalog.CategoryAll, "Genre key, or \"all\"")
	f.StringVarP(&opts.sort, "sort", "s", string(catalog.SortTitle), "Sort order: title, author, year or year-desc")
	f.IntVarP(&opts.page, "page", "p", 1, "Page number")
	f.IntVar(&opts.pageSize, "page-size", catalog.DefaultPageSize, "Records per page")
	return cmd
}

func (o *listOptions) validate() error {
	if !catalog.SortKey(o.sort).Valid() {
		return fmt.Errorf("invalid sort %q (valid: %s)", o.sort, strings.Join(sortKeys(), ", "))
	}
	if o.page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", o.page)
	}
	if o.pageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", o.pageSize)
	}
	return nil
}

// view replays the options through the catalog state the same way the web page does.
// An out of range page keeps the first page.
func (o *listOptions) view(books []domain.Book) catalog.View {
	s := catalog.NewState(books, o.pageSize)
	s = catalog.Apply(s, catalog.SetQuery{Query: o.query})
	s = catalog.Apply(s, catalog.SetCategory{Category: categoryKey(o.genre)})
	s = catalog.Apply(s, catalog.SetSort{Key: catalog.SortKey(o.sort)})
	s = catalog.Apply(s, catalog.ChangePage{Page: o.page})
	return catalog.Render(s)
}

func categoryKey(genre string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" || genre == catalog.CategoryAll {
		return catalog.CategoryAll
	}
	if g, ok := domain.ParseGenre(genre); ok {
		return string(g)
	}
	return genre
}

func sortKeys() []string {
	return []string{
		string(catalog.SortTitle),
		string(catalog.SortAuthor),
		string(catalog.SortYear),
		string(catalog.SortYearDesc),
	}
}
