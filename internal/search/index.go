// Package search keeps an in-memory Bleve index over the loaded catalog for
// relevance-ranked lookups. The catalog's own filter stays substring based; this
// index backs the separate search endpoint.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

const (
	batchSize    = 500
	defaultLimit = 20
	maxLimit     = 100
)

// document is what gets indexed for one book.
type document struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	Year        float64 `json:"year"`
}

// Index wraps an in-memory Bleve index. All methods are safe for concurrent use;
// Rebuild swaps in a fresh index so searches never see a half-built one.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// New creates an empty index.
func New(logger *slog.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx, logger: logger}, nil
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = store
		return fm
	}
	doc.AddFieldMappingsAt("title", text(true))
	doc.AddFieldMappingsAt("author", text(true))
	doc.AddFieldMappingsAt("description", text(false))

	genre := bleve.NewTextFieldMapping()
	genre.Analyzer = keyword.Name
	genre.Store = true
	doc.AddFieldMappingsAt("genre", genre)

	doc.AddFieldMappingsAt("year", bleve.NewNumericFieldMapping())

	im.DefaultMapping = doc
	return im
}

// Rebuild replaces the index contents with books.
func (x *Index) Rebuild(books []domain.Book) error {
	fresh, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	for start := 0; start < len(books); start += batchSize {
		batch := fresh.NewBatch()
		for _, b := range books[start:min(start+batchSize, len(books))] {
			if err := batch.Index(strconv.FormatInt(b.ID, 10), toDocument(b)); err != nil {
				fresh.Close()
				return fmt.Errorf("index book %d: %w", b.ID, err)
			}
		}
		if err := fresh.Batch(batch); err != nil {
			fresh.Close()
			return fmt.Errorf("execute batch: %w", err)
		}
	}

	x.mu.Lock()
	old := x.index
	x.index = fresh
	x.mu.Unlock()

	if err := old.Close(); err != nil && x.logger != nil {
		x.logger.Warn("failed to close previous search index", "error", err)
	}
	if x.logger != nil {
		x.logger.Debug("search index rebuilt", "documents", len(books))
	}
	return nil
}

func toDocument(b domain.Book) document {
	return document{
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Genre:       string(b.Genre),
		Year:        float64(b.Year),
	}
}

// Params describes one search.
type Params struct {
	Query  string
	Genre  string // Optional exact genre filter
	Limit  int
	Offset int
}

// Hit is one ranked match.
type Hit struct {
	ID     int64   `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
}

// Result is a page of ranked matches.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Search runs a relevance query: title matches weigh most, then author, then description.
func (x *Index) Search(ctx context.Context, p Params) (*Result, error) {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	p.Limit = min(p.Limit, maxLimit)

	req := bleve.NewSearchRequestOptions(buildQuery(p), p.Limit, max(p.Offset, 0), false)
	req.Fields = []string{"title", "author"}

	x.mu.RLock()
	res, err := x.index.SearchInContext(ctx, req)
	x.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{Query: p.Query, Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		hit := Hit{ID: id, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}
		if a, ok := h.Fields["author"].(string); ok {
			hit.Author = a
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func buildQuery(p Params) query.Query {
	var parts []query.Query

	if p.Query != "" {
		title := bleve.NewMatchQuery(p.Query)
		title.SetField("title")
		title.SetBoost(3.0)

		fuzzyTitle := bleve.NewMatchQuery(p.Query)
		fuzzyTitle.SetField("title")
		fuzzyTitle.SetFuzziness(1)
		fuzzyTitle.SetBoost(0.8)

		author := bleve.NewMatchQuery(p.Query)
		author.SetField("author")
		author.SetBoost(2.0)

		desc := bleve.NewMatchQuery(p.Query)
		desc.SetField("description")

		parts = append(parts, bleve.NewDisjunctionQuery(title, fuzzyTitle, author, desc))
	}

	if p.Genre != "" {
		g := bleve.NewTermQuery(p.Genre)
		g.SetField("genre")
		parts = append(parts, g)
	}

	switch len(parts) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return parts[0]
	default:
		return bleve.NewConjunctionQuery(parts...)
	}
}

// DocumentCount returns how many books are indexed.
func (x *Index) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Close releases the index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}
