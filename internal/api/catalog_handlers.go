package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogView",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Catalog page",
		Description: "Filters, sorts and paginates the catalog and returns the rendered page with its pager and stats",
		Tags:        []string{"Catalog"},
	}, s.handleCatalogView)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/books/{id}",
		Summary:     "Get catalog book",
		Description: "Returns one catalog record",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "reserveCatalogBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/books/{id}/reserve",
		Summary:     "Reserve book",
		Description: "Acknowledges a reservation request with a notice. Nothing is persisted.",
		Tags:        []string{"Catalog"},
	}, s.handleReserveCatalogBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog",
		Description: "Relevance ranked full-text search over title, author and description",
		Tags:        []string{"Catalog"},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/reload",
		Summary:     "Reload catalog",
		Description: "Refetches the seed items and replaces the catalog",
		Tags:        []string{"Catalog"},
	}, s.handleReloadCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCatalogSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/catalog/sessions",
		Summary:       "Create view session",
		Description:   "Starts a server-side catalog view that later events transition",
		Tags:          []string{"Catalog Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCatalogSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/sessions/{id}",
		Summary:     "Get view session",
		Description: "Returns the current view of a session",
		Tags:        []string{"Catalog Sessions"},
	}, s.handleGetCatalogSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyCatalogEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/sessions/{id}/events",
		Summary:     "Apply view event",
		Description: "Applies one state transition and returns the new view plus the effects to run",
		Tags:        []string{"Catalog Sessions"},
	}, s.handleApplyCatalogEvent)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCatalogSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/catalog/sessions/{id}",
		Summary:       "Delete view session",
		Tags:          []string{"Catalog Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCatalogSession)
}

// CatalogViewInput carries the catalog page controls.
type CatalogViewInput struct {
	Query string `query:"q" maxLength:"200" doc:"Free text matched against title, author and description"`
	Genre string `query:"genre" doc:"Genre key or 'all'. Legacy Portuguese keys are accepted."`
	Sort  string `query:"sort" enum:"title,author,year,year-desc" doc:"Sort key. 'year' lists newest first."`
	Page  int    `query:"page" minimum:"1" doc:"1-based page. Pages past the last one show the first page"`
}

// CatalogViewOutput wraps the rendered page.
type CatalogViewOutput struct {
	Body catalog.View
}

func (s *Server) handleCatalogView(ctx context.Context, input *CatalogViewInput) (*CatalogViewOutput, error) {
	view, err := s.services.Catalog.View(ctx, service.ViewQuery{
		Query:    input.Query,
		Category: input.Genre,
		Sort:     input.Sort,
		Page:     input.Page,
	})
	if err != nil {
		return nil, err
	}
	return &CatalogViewOutput{Body: view}, nil
}

// BookIDInput is a numeric record id in the path.
type BookIDInput struct {
	ID int64 `path:"id" doc:"Record ID"`
}

// BookOutput wraps a single record.
type BookOutput struct {
	Body domain.Book
}

func (s *Server) handleGetCatalogBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Catalog.Book(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

// NoticeOutput wraps a transient notification.
type NoticeOutput struct {
	Body service.Notice
}

func (s *Server) handleReserveCatalogBook(ctx context.Context, input *BookIDInput) (*NoticeOutput, error) {
	notice, err := s.services.Catalog.Reserve(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoticeOutput{Body: notice}, nil
}

// CatalogSearchInput contains parameters for full-text search.
type CatalogSearchInput struct {
	Query  string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search terms"`
	Genre  string `query:"genre" doc:"Restrict results to one genre"`
	Limit  int    `query:"limit" minimum:"1" maximum:"50" default:"10" doc:"Max results"`
	Offset int    `query:"offset" minimum:"0" doc:"Results to skip"`
}

// CatalogSearchOutput wraps a page of hits.
type CatalogSearchOutput struct {
	Body *search.Result
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *CatalogSearchInput) (*CatalogSearchOutput, error) {
	result, err := s.services.Catalog.Search(ctx, search.Params{
		Query:  input.Query,
		Genre:  input.Genre,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &CatalogSearchOutput{Body: result}, nil
}

// ReloadResponse reports a completed reload.
type ReloadResponse struct {
	Count    int       `json:"count" doc:"Records in the new catalog"`
	LoadedAt time.Time `json:"loadedAt" doc:"When the reload finished"`
}

// ReloadOutput wraps the reload result.
type ReloadOutput struct {
	Body ReloadResponse
}

func (s *Server) handleReloadCatalog(ctx context.Context, _ *struct{}) (*ReloadOutput, error) {
	books, err := s.services.Catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ReloadOutput{Body: ReloadResponse{Count: len(books), LoadedAt: s.services.Catalog.LoadedAt()}}, nil
}

// SessionIDInput is a view session id in the path.
type SessionIDInput struct {
	ID string `path:"id" doc:"View session ID"`
}

// SessionOutput wraps a session view.
type SessionOutput struct {
	Body service.SessionView
}

func (s *Server) handleCreateCatalogSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	view, err := s.services.Catalog.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: view}, nil
}

func (s *Server) handleGetCatalogSession(_ context.Context, input *SessionIDInput) (*SessionOutput, error) {
	view, err := s.services.Catalog.Session(input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: view}, nil
}

// ApplyEventInput is one transition for a view session.
type ApplyEventInput struct {
	ID   string `path:"id" doc:"View session ID"`
	Body service.SessionEvent
}

func (s *Server) handleApplyCatalogEvent(ctx context.Context, input *ApplyEventInput) (*SessionOutput, error) {
	view, err := s.services.Catalog.ApplyEvent(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: view}, nil
}

func (s *Server) handleDeleteCatalogSession(_ context.Context, input *SessionIDInput) (*struct{}, error) {
	if err := s.services.Catalog.DeleteSession(input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
