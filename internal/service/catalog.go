package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
)

// CatalogOptions configures a CatalogService.
type CatalogOptions struct {
	Limit      int
	PageSize   int
	SessionTTL time.Duration
}

// CatalogService owns the loaded catalog, its search index and the live view sessions.
type CatalogService struct {
	source  CatalogSource
	index   *search.Index
	events  EventEmitter
	metrics *metrics.Metrics
	logger  *slog.Logger
	opts    CatalogOptions

	loads singleflight.Group

	mu       sync.RWMutex
	books    []domain.Book
	byID     map[int64]domain.Book
	loaded   bool
	loadedAt time.Time
	sessions map[string]*viewSession
}

// NewCatalogService creates a catalog service. index, events and m may be nil.
func NewCatalogService(source CatalogSource, index *search.Index, events EventEmitter, m *metrics.Metrics, logger *slog.Logger, opts CatalogOptions) *CatalogService {
	if opts.Limit <= 0 {
		opts.Limit = catalog.DefaultSeedLimit
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if events == nil {
		events = NoopEmitter{}
	}
	return &CatalogService{
		source:   source,
		index:    index,
		events:   events,
		metrics:  m,
		logger:   logger,
		opts:     opts,
		byID:     make(map[int64]domain.Book),
		sessions: make(map[string]*viewSession),
	}
}

// Load fetches the seed items and replaces the catalog wholesale. Concurrent calls
// join the load already in flight instead of racing it.
func (s *CatalogService) Load(ctx context.Context) ([]domain.Book, error) {
	v, err, shared := s.loads.Do("load", func() (any, error) {
		return s.load(ctx)
	})
	if shared {
		s.logger.Debug("joined in-flight catalog load")
	}
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Book)), nil
}

func (s *CatalogService) load(ctx context.Context) ([]domain.Book, error) {
	started := time.Now()

	items, err := s.source.FetchItems(ctx)
	if err != nil {
		s.metrics.ObserveReload(started, 0, err)
		s.logger.Error("catalog load failed", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeUpstream, "Erro ao carregar o catálogo. Tente novamente.")
	}

	books := catalog.FromItems(items, s.opts.Limit)

	if s.index != nil {
		if err := s.index.Rebuild(books); err != nil {
			s.metrics.ObserveReload(started, 0, err)
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to index catalog")
		}
	}

	byID := make(map[int64]domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	s.mu.Lock()
	s.books = books
	s.byID = byID
	s.loaded = true
	s.loadedAt = time.Now()
	for _, sess := range s.sessions {
		sess.state = catalog.Apply(sess.state, catalog.Load{Books: books})
	}
	s.mu.Unlock()

	s.metrics.ObserveReload(started, len(books), nil)
	s.events.Emit(sse.NewCatalogReloadedEvent(len(books)))
	s.logger.Info("catalog loaded", "count", len(books), "duration", time.Since(started))

	return books, nil
}

// ensureLoaded performs the first load lazily.
func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// Books returns a copy of the loaded catalog in seed order.
func (s *CatalogService) Books(ctx context.Context) ([]domain.Book, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books), nil
}

// LoadedAt returns when the catalog was last loaded, zero if never.
func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Book returns one record by id.
func (s *CatalogService) Book(ctx context.Context, id int64) (domain.Book, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Book{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return domain.Book{}, domainerrors.NotFoundf("book %d not found", id)
	}
	return b, nil
}

// ViewQuery is a complete description of one catalog page, as carried by a URL.
type ViewQuery struct {
	Query    string
	Category string
	Sort     string
	Page     int
}

// View renders the page described by q over a fresh state. Out-of-range pages fall
// back to the first page, matching how the state machine ignores them.
func (s *CatalogService) View(ctx context.Context, q ViewQuery) (catalog.View, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return catalog.View{}, err
	}

	state := catalog.NewState(books, s.opts.PageSize)
	for _, e := range q.events() {
		state = catalog.Apply(state, e)
	}
	return catalog.Render(state), nil
}

func (q ViewQuery) events() []catalog.Event {
	var events []catalog.Event
	if q.Query != "" {
		events = append(events, catalog.SetQuery{Query: q.Query})
	}
	if q.Category != "" {
		events = append(events, catalog.SetCategory{Category: normalizeCategory(q.Category)})
	}
	// Unknown sort keys keep the default title order.
	if key := catalog.SortKey(q.Sort); key.Valid() {
		events = append(events, catalog.SetSort{Key: key})
	}
	if q.Page > 1 {
		events = append(events, catalog.ChangePage{Page: q.Page})
	}
	return events
}

// normalizeCategory maps legacy genre keys onto canonical ones. Anything else is kept
// verbatim and simply matches nothing.
func normalizeCategory(category string) string {
	if category == catalog.CategoryAll {
		return category
	}
	if g, ok := domain.ParseGenre(category); ok {
		return string(g)
	}
	return category
}

// Search runs a relevance query over the loaded catalog.
func (s *CatalogService) Search(ctx context.Context, p search.Params) (*search.Result, error) {
	if s.index == nil {
		return nil, domainerrors.Unavailable("search is not enabled")
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if p.Genre == catalog.CategoryAll {
		p.Genre = ""
	} else if p.Genre != "" {
		p.Genre = normalizeCategory(p.Genre)
	}
	res, err := s.index.Search(ctx, p)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return res, nil
}

// Reserve acknowledges a reservation request for a catalog book.
func (s *CatalogService) Reserve(ctx context.Context, id int64) (Notice, error) {
	b, err := s.Book(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	s.logger.Info("book reserved", "book_id", id)
	return successNotice(fmt.Sprintf("Livro %q reservado com sucesso! Você será notificado quando estiver disponível para retirada.", b.Title)), nil
}
