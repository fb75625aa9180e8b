package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/placeholder"
)

const defaultSeedURL = "https://jsonplaceholder.typicode.com"

// sourceFlags are shared by every subcommand.
type sourceFlags struct {
	file    string
	url     string
	limit   int
	timeout time.Duration
	verbose bool
}

type itemSource interface {
	FetchItems(ctx context.Context) ([]catalog.RawItem, error)
}

func newRootCmd() *cobra.Command {
	flags := &sourceFlags{}

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the Biblioteca Online catalog from the terminal",
		Long: `catalog loads the seed posts, derives the book records and prints catalog pages
exactly as the web catalog would show them.

Examples:
  catalog list                          # first page, sorted by title
  catalog list -q amor -g poetry -p 2   # filtered, second page
  catalog list --file seed.json         # offline, from a local seed file
  catalog stats                         # totals and per-genre counts
  catalog search dolorem ipsum          # ranked full-text search`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.file, "file", "", "Read seed posts from a local JSON file")
	pf.StringVar(&flags.url, "url", "", "Base URL of the placeholder REST service (default "+defaultSeedURL+")")
	pf.IntVar(&flags.limit, "limit", 50, "Number of seed items kept")
	pf.DurationVar(&flags.timeout, "timeout", 10*time.Second, "Timeout for loading the seed data")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests to stderr")
	root.MarkFlagsMutuallyExclusive("file", "url")

	root.AddCommand(
		newListCmd(flags),
		newStatsCmd(flags),
		newSearchCmd(flags),
	)
	return root
}

func (f *sourceFlags) logger() *logger.Logger {
	if !f.verbose {
		return logger.Discard()
	}
	return logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("debug")})
}

// loadBooks fetches the seed items and maps them to catalog records.
func (f *sourceFlags) loadBooks(ctx context.Context) ([]domain.Book, error) {
	log := f.logger()

	var src itemSource
	if f.file != "" {
		src = placeholder.FileSource{Path: f.file}
	} else {
		url := f.url
		if url == "" {
			url = defaultSeedURL
		}
		client := placeholder.New(placeholder.Options{BaseURL: url, Timeout: f.timeout}, log.Logger)
		defer client.Close()
		src = client
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	items, err := src.FetchItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("seed source returned no items")
	}

	books := catalog.FromItems(items, f.limit)
	log.Debug("catalog loaded", "items", len(items), "books", len(books))
	return books, nil
}
