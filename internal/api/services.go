package api

import "github.com/bibliotecaonline/biblioteca-server/internal/service"

// Services groups the application services the handlers call.
type Services struct {
	Catalog *service.CatalogService
	Books   *service.BookService
	Contact *service.ContactService
	Team    *service.TeamService
}
