package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
)

func newSearchCmd(flags *sourceFlags) *cobra.Command {
	var (
		genre string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <terms>",
		Short: "Rank catalog records by relevance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terms := strings.TrimSpace(strings.Join(args, " "))
			if terms == "" {
				return fmt.Errorf("search terms must not be blank")
			}

			books, err := flags.loadBooks(cmd.Context())
			if err != nil {
				return err
			}

			idx, err := search.New(flags.logger().Logger)
			if err != nil {
				return err
			}
			defer idx.Close()

			if err := idx.Rebuild(books); err != nil {
				return fmt.Errorf("failed to index catalog: %w", err)
			}

			res, err := idx.Search(cmd.Context(), search.Params{
				Query: terms,
				Genre: categoryKeyOrEmpty(genre),
				Limit: limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Hits) == 0 {
				fmt.Fprintf(out, "Nenhum livro encontrado para %q.\n", terms)
				return nil
			}

			fmt.Fprintf(out, "%d resultado(s) para %q\n\n", res.Total, terms)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tTÍTULO\tAUTOR\tSCORE")
			for i, h := range res.Hits {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.3f\n", i+1, h.ID, h.Title, h.Author, h.Score)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Restrict results to one genre")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	return cmd
}

func categoryKeyOrEmpty(genre string) string {
	key := categoryKey(genre)
	if key == catalog.CategoryAll {
		return ""
	}
	return key
}
