package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List managed books",
		Description: "Returns the book manager's list, newest first, optionally narrowed by a free-text query",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds the book optimistically and posts it upstream. A rejected write is rolled back.",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get managed book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces the book optimistically and puts it upstream. A rejected write is rolled back.",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes the book optimistically and deletes it upstream. A rejected delete restores it in place.",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// ListBooksInput filters the managed list.
type ListBooksInput struct {
	Query string `query:"q" maxLength:"200" doc:"Free text matched against title, author and description"`
}

// BookListResponse is the managed list.
type BookListResponse struct {
	Books []domain.Book `json:"books"`
	Total int           `json:"total"`
}

// BookListOutput wraps the managed list.
type BookListOutput struct {
	Body BookListResponse
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	books, err := s.services.Books.List(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

// CreateBookInput is the book form.
type CreateBookInput struct {
	Body service.BookInput
}

// UpdateBookInput is the book form for an existing record.
type UpdateBookInput struct {
	ID   int64 `path:"id" doc:"Record ID"`
	Body service.BookInput
}

// BookResultOutput wraps a completed write and its notice.
type BookResultOutput struct {
	Body service.BookResult
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookResultOutput, error) {
	result, err := s.services.Books.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookResultOutput{Body: result}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookResultOutput, error) {
	result, err := s.services.Books.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookResultOutput{Body: result}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*BookResultOutput, error) {
	result, err := s.services.Books.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookResultOutput{Body: result}, nil
}
