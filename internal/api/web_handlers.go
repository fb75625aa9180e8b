package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
)

//go:embed templates/*.html
var templates embed.FS

var catalogTemplate = template.Must(template.ParseFS(templates, "templates/catalog.html"))

var sortLabels = map[catalog.SortKey]string{
	catalog.SortTitle:    "Título (A-Z)",
	catalog.SortAuthor:   "Autor (A-Z)",
	catalog.SortYear:     "Mais recentes",
	catalog.SortYearDesc: "Mais antigos",
}

type option struct {
	Key      string
	Label    string
	Selected bool
}

// catalogPageData contains data for the catalog page template.
type catalogPageData struct {
	View   catalog.View
	Genres []option
	Sorts  []option
	Error  string
}

// PageURL links to page p of the rendered view.
func (d catalogPageData) PageURL(p int) string {
	return catalogPageURL(d.View, p)
}

// handleCatalogPage renders the catalog server-side from the URL query, so every page
// state is linkable.
// GET /catalog?q=&genre=&sort=&page=
func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))
	q := service.ViewQuery{
		Query:    params.Get("q"),
		Category: params.Get("genre"),
		Sort:     params.Get("sort"),
		Page:     page,
	}

	status := http.StatusOK
	data := catalogPageData{}

	view, err := s.services.Catalog.View(r.Context(), q)
	if err != nil {
		status = http.StatusInternalServerError
		data.Error = "Não foi possível carregar o catálogo."
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			status = domainErr.HTTPStatus()
			data.Error = domainErr.Message
		}
		s.logger.Warn("catalog page failed", "error", err)
	}
	data.View = view
	data.Genres = genreOptions(view.Category)
	data.Sorts = sortOptions(view.SortKey)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := catalogTemplate.Execute(w, data); err != nil {
		s.logger.Error("Failed to execute catalog template", "error", err)
	}
}

func genreOptions(selected string) []option {
	if selected == "" {
		selected = catalog.CategoryAll
	}
	opts := make([]option, 0, len(domain.AllGenres)+1)
	opts = append(opts, option{Key: catalog.CategoryAll, Label: "Todos os gêneros", Selected: selected == catalog.CategoryAll})
	for _, g := range domain.AllGenres {
		opts = append(opts, option{Key: string(g), Label: g.Label(), Selected: selected == string(g)})
	}
	return opts
}

func sortOptions(selected catalog.SortKey) []option {
	opts := make([]option, len(catalog.SortKeys))
	for i, k := range catalog.SortKeys {
		opts[i] = option{Key: string(k), Label: sortLabels[k], Selected: k == selected}
	}
	return opts
}

// catalogPageURL links to page p of the current view.
func catalogPageURL(view catalog.View, p int) string {
	v := url.Values{}
	if view.Query != "" {
		v.Set("q", view.Query)
	}
	if view.Category != "" && view.Category != catalog.CategoryAll {
		v.Set("genre", view.Category)
	}
	if view.SortKey != "" {
		v.Set("sort", string(view.SortKey))
	}
	if p > 1 {
		v.Set("page", strconv.Itoa(p))
	}
	if len(v) == 0 {
		return "/catalog"
	}
	return "/catalog?" + v.Encode()
}
