package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/placeholder"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

// BookRemote is the REST resource the book manager mirrors its writes to.
// *placeholder.Client implements it.
type BookRemote interface {
	CatalogSource
	CreatePost(ctx context.Context, in placeholder.PostInput) (catalog.RawItem, error)
	UpdatePost(ctx context.Context, id int64, in placeholder.PostInput) (catalog.RawItem, error)
	DeletePost(ctx context.Context, id int64) error
}

// BookOptions configures a BookService.
type BookOptions struct {
	InitialLimit      int
	RollbackOnFailure bool
}

// The manager's initial list cycles these genres by id.
var managedGenreCycle = [...]domain.Genre{
	domain.GenreFiction,
	domain.GenreNonFiction,
	domain.GenreBiography,
	domain.GenreTechnical,
}

const defaultManagedGenre = domain.GenreNonFiction

// BookInput is the book form.
type BookInput struct {
	Title       string `json:"title" validate:"trimmed_min=3" doc:"At least 3 characters"`
	Author      string `json:"author" validate:"required" doc:"Author name"`
	Year        int    `json:"year,omitempty" validate:"omitempty,gte=0,lte=9999" doc:"Publication year"`
	Genre       string `json:"genre,omitempty" validate:"omitempty,genre" doc:"Genre key, defaults to non-fiction"`
	Description string `json:"description,omitempty" doc:"Free text description"`
}

// normalize trims the text fields and maps legacy genre keys onto canonical ones.
func (in BookInput) normalize() BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	if g, ok := domain.ParseGenre(in.Genre); ok {
		in.Genre = string(g)
	}
	return in
}

func (in BookInput) genre() domain.Genre {
	if in.Genre == "" {
		return defaultManagedGenre
	}
	return domain.Genre(in.Genre)
}

func (in BookInput) postInput() placeholder.PostInput {
	return placeholder.PostInput{Title: in.Title, Body: in.Description, UserID: placeholder.DefaultUserID}
}

// BookResult is a write outcome plus the notice to show.
type BookResult struct {
	Book   domain.Book `json:"book"`
	Notice Notice      `json:"notice"`
}

// compensation undoes one optimistic write.
type compensation struct {
	op   string
	book domain.Book
	undo func([]domain.Book) []domain.Book
}

// BookService manages the editable book list. Writes are applied locally first and then
// mirrored to the remote resource; a rejected remote call replays the write's
// compensation when rollback is enabled.
type BookService struct {
	remote    BookRemote
	validator *validation.Validator
	events    EventEmitter
	metrics   *metrics.Metrics
	logger    *slog.Logger
	opts      BookOptions
	now       func() time.Time

	loads singleflight.Group

	mu     sync.Mutex
	books  []domain.Book
	loaded bool
	lastID int64
}

// NewBookService creates a book service. events and m may be nil.
func NewBookService(remote BookRemote, v *validation.Validator, events EventEmitter, m *metrics.Metrics, logger *slog.Logger, opts BookOptions) *BookService {
	if opts.InitialLimit <= 0 {
		opts.InitialLimit = 10
	}
	if events == nil {
		events = NoopEmitter{}
	}
	return &BookService{
		remote:    remote,
		validator: v,
		events:    events,
		metrics:   m,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// Load replaces the managed list with the first InitialLimit remote posts.
func (s *BookService) Load(ctx context.Context) ([]domain.Book, error) {
	_, err, _ := s.loads.Do("load", func() (any, error) {
		items, err := s.remote.FetchItems(ctx)
		if err != nil {
			s.logger.Error("book list load failed", "error", err)
			return nil, domainerrors.Wrap(err, domainerrors.CodeUpstream, "Erro ao carregar os livros. Tente novamente.")
		}

		books := managedBooks(items, s.opts.InitialLimit)

		s.mu.Lock()
		s.books = books
		s.loaded = true
		s.mu.Unlock()

		s.logger.Info("book list loaded", "count", len(books))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, "")
}

func managedBooks(items []catalog.RawItem, limit int) []domain.Book {
	if limit > len(items) {
		limit = len(items)
	}
	books := make([]domain.Book, 0, limit)
	for _, item := range items[:limit] {
		books = append(books, domain.Book{
			ID:          item.ID,
			Title:       item.Title,
			Author:      fmt.Sprintf("Autor %d", item.ID),
			Description: item.Body,
			Year:        2020 + int(item.ID%4),
			Genre:       managedGenreCycle[((item.ID%4)+4)%4],
		})
	}
	return books
}

func (s *BookService) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// List returns the managed books, newest first, narrowed by the same free-text
// predicate the catalog uses.
func (s *BookService) List(ctx context.Context, query string) ([]domain.Book, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	q := catalog.NormalizeQuery(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		if catalog.MatchesQuery(b, q) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Get returns one managed book.
func (s *BookService) Get(ctx context.Context, id int64) (domain.Book, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Book{}, domainerrors.NotFound("Livro não encontrado.")
	}
	return s.books[i], nil
}

// Create prepends the book under a temporary id and then posts it.
func (s *BookService) Create(ctx context.Context, in BookInput) (BookResult, error) {
	in = in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return BookResult{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return BookResult{}, err
	}

	s.mu.Lock()
	book := domain.Book{
		ID:          s.tempID(),
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Year:        in.Year,
		Genre:       in.genre(),
	}
	s.books = slices.Insert(s.books, 0, book)
	comp := compensation{op: "create", book: book, undo: func(books []domain.Book) []domain.Book {
		return slices.DeleteFunc(books, func(b domain.Book) bool { return b.ID == book.ID })
	}}
	s.mu.Unlock()

	_, err := s.remote.CreatePost(ctx, in.postInput())
	if err != nil {
		return BookResult{}, s.fail(comp, err, "Erro ao adicionar o livro. Tente novamente.")
	}

	s.succeed(comp, sse.EventBookCreated)
	return BookResult{Book: book, Notice: successNotice("Livro adicionado com sucesso!")}, nil
}

// Update merges the form into an existing book and then puts it.
func (s *BookService) Update(ctx context.Context, id int64, in BookInput) (BookResult, error) {
	in = in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return BookResult{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return BookResult{}, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return BookResult{}, domainerrors.NotFound("Livro não encontrado.")
	}
	prev := s.books[i]
	book := prev
	book.Title = in.Title
	book.Author = in.Author
	book.Description = in.Description
	book.Year = in.Year
	book.Genre = in.genre()
	s.books[i] = book
	comp := compensation{op: "update", book: book, undo: func(books []domain.Book) []domain.Book {
		if j := slices.IndexFunc(books, func(b domain.Book) bool { return b.ID == id }); j >= 0 {
			books[j] = prev
		}
		return books
	}}
	s.mu.Unlock()

	_, err := s.remote.UpdatePost(ctx, id, in.postInput())
	if err != nil {
		return BookResult{}, s.fail(comp, err, "Erro ao atualizar o livro. Tente novamente.")
	}

	s.succeed(comp, sse.EventBookUpdated)
	return BookResult{Book: book, Notice: successNotice("Livro atualizado com sucesso!")}, nil
}

// Delete removes a book locally and then deletes it remotely.
func (s *BookService) Delete(ctx context.Context, id int64) (BookResult, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return BookResult{}, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return BookResult{}, domainerrors.NotFound("Livro não encontrado.")
	}
	book := s.books[i]
	s.books = slices.Delete(s.books, i, i+1)
	comp := compensation{op: "delete", book: book, undo: func(books []domain.Book) []domain.Book {
		return slices.Insert(books, min(i, len(books)), book)
	}}
	s.mu.Unlock()

	if err := s.remote.DeletePost(ctx, id); err != nil {
		return BookResult{}, s.fail(comp, err, "Erro ao excluir o livro. Tente novamente.")
	}

	s.succeed(comp, sse.EventBookDeleted)
	return BookResult{Book: book, Notice: successNotice("Livro excluído com sucesso!")}, nil
}

func (s *BookService) succeed(comp compensation, t sse.EventType) {
	s.metrics.ObserveBookWrite(comp.op, nil, false)
	s.events.Emit(sse.NewBookEvent(t, comp.book))
	s.logger.Info("book "+comp.op+"d", "book_id", comp.book.ID)
}

// fail applies the compensation when rollback is enabled and converts the remote error.
func (s *BookService) fail(comp compensation, err error, msg string) error {
	rolledBack := s.opts.RollbackOnFailure
	if rolledBack {
		s.mu.Lock()
		s.books = comp.undo(s.books)
		s.mu.Unlock()
		s.events.Emit(sse.NewBookRolledBackEvent(comp.book, comp.op+" rejected upstream"))
	}

	s.metrics.ObserveBookWrite(comp.op, err, rolledBack)
	s.logger.Error("book write rejected upstream",
		"op", comp.op,
		"book_id", comp.book.ID,
		"rolled_back", rolledBack,
		"error", err)

	return domainerrors.Wrap(err, domainerrors.CodeUpstream, msg).
		WithDetails(map[string]any{"op": comp.op, "rolledBack": rolledBack})
}

// tempID derives an id from the wall clock in milliseconds, bumped past any id already
// handed out or present. Must be called with s.mu held.
func (s *BookService) tempID() int64 {
	candidate := max(s.now().UnixMilli(), s.lastID+1)
	for s.indexOf(candidate) >= 0 {
		candidate++
	}
	s.lastID = candidate
	return candidate
}

// indexOf must be called with s.mu held.
func (s *BookService) indexOf(id int64) int {
	return slices.IndexFunc(s.books, func(b domain.Book) bool { return b.ID == id })
}
