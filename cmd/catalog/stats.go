package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

func newStatsCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalog totals and the number of books per genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := flags.loadBooks(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, statsLine(catalog.ComputeStats(books)))
			fmt.Fprintln(out)

			counts := make(map[domain.Genre]int, len(domain.AllGenres))
			for _, b := range books {
				counts[b.Genre]++
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GÊNERO\tCHAVE\tLIVROS")
			for _, g := range domain.AllGenres {
				fmt.Fprintf(w, "%s\t%s\t%d\n", g.Label(), g, counts[g])
			}
			return w.Flush()
		},
	}
}
