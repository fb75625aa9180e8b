package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
)

func TestCatalogView(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name       string
		path       string
		wantCards  int
		wantPage   int
		wantTotal  int
		wantFirst  string
		wantPages  int
		wantHidden bool
	}{
		{name: "default page", path: "/api/v1/catalog", wantCards: 12, wantPage: 1, wantTotal: 30, wantFirst: "Livro 01", wantPages: 3},
		{name: "last page", path: "/api/v1/catalog?page=3", wantCards: 6, wantPage: 3, wantTotal: 30, wantFirst: "Livro 25", wantPages: 3},
		{name: "page past the end falls back", path: "/api/v1/catalog?page=9", wantCards: 12, wantPage: 1, wantTotal: 30, wantFirst: "Livro 01", wantPages: 3},
		{name: "newest first", path: "/api/v1/catalog?sort=year", wantCards: 12, wantPage: 1, wantTotal: 30, wantFirst: "Livro 30", wantPages: 3},
		{name: "legacy genre key", path: "/api/v1/catalog?genre=ficcao", wantCards: 5, wantPage: 1, wantTotal: 5, wantFirst: "Livro 01", wantPages: 1, wantHidden: true},
		{name: "query", path: "/api/v1/catalog?q=livro%2012", wantCards: 1, wantPage: 1, wantTotal: 1, wantFirst: "Livro 12", wantPages: 1, wantHidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			envelope := decodeEnvelope[catalog.View](t, resp.Body.Bytes())
			view := envelope.Data
			require.Len(t, view.Cards, tt.wantCards)
			assert.Equal(t, tt.wantPage, view.Page)
			assert.Equal(t, tt.wantTotal, view.Stats.Total)
			assert.Equal(t, tt.wantFirst, view.Cards[0].Title)
			assert.Equal(t, tt.wantPages, view.TotalPages)
			assert.Equal(t, tt.wantHidden, view.Pager.Hidden)
		})
	}
}

func TestCatalogView_NoMatches(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/catalog?q=inexistente")
	require.Equal(t, http.StatusOK, resp.Code)

	view := decodeEnvelope[catalog.View](t, resp.Body.Bytes()).Data
	assert.True(t, view.Empty)
	assert.Empty(t, view.Cards)
	assert.Equal(t, 0, view.Stats.Total)
}

func TestCatalogView_RejectsUnknownSort(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/catalog?sort=rating")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
	assert.Contains(t, envelope.Details, "query.sort")
}

func TestCatalogView_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.remote.fetchErr = errors.New("connection refused")

	resp := ts.api.Get("/api/v1/catalog")
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "UPSTREAM", envelope.Code)
	assert.Equal(t, "Erro ao carregar o catálogo. Tente novamente.", envelope.Message)
}

func TestGetCatalogBook(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/catalog/books/7")
	require.Equal(t, http.StatusOK, resp.Code)
	book := decodeEnvelope[domain.Book](t, resp.Body.Bytes()).Data
	assert.Equal(t, int64(7), book.ID)
	assert.Equal(t, "Livro 07", book.Title)
	assert.Equal(t, catalog.Authors[6], book.Author)

	resp = ts.api.Get("/api/v1/catalog/books/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestReserveCatalogBook(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/catalog/books/3/reserve")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	notice := decodeEnvelope[service.Notice](t, resp.Body.Bytes()).Data
	assert.Equal(t, service.NoticeSuccess, notice.Kind)
	assert.Contains(t, notice.Message, "Livro 03")
	assert.Equal(t, int64(3000), notice.DismissAfterMs)
}

func TestSearchCatalog(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/catalog/search?q=resumo&limit=5")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decodeEnvelope[search.Result](t, resp.Body.Bytes()).Data
	assert.Equal(t, uint64(30), result.Total)
	assert.Len(t, result.Hits, 5)

	resp = ts.api.Get("/api/v1/catalog/search")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.api.Get("/api/v1/catalog/search?q=resumo&limit=500")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestReloadCatalog(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/catalog/reload")
	require.Equal(t, http.StatusOK, resp.Code)
	reload := decodeEnvelope[ReloadResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, 30, reload.Count)
	assert.False(t, reload.LoadedAt.IsZero())

	ts.remote.mu.Lock()
	ts.remote.items = numberedItems(4)
	ts.remote.mu.Unlock()

	resp = ts.api.Post("/api/v1/catalog/reload")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 4, decodeEnvelope[ReloadResponse](t, resp.Body.Bytes()).Data.Count)
}

func TestCatalogSessionLifecycle(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/catalog/sessions")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, []string{"render", "stats"}, created.Effects)
	assert.Equal(t, 1, created.View.Page)

	path := "/api/v1/catalog/sessions/" + created.SessionID

	resp = ts.api.Post(path+"/events", map[string]any{"type": "page", "page": 2})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	paged := decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data
	assert.Equal(t, 2, paged.View.Page)
	assert.Equal(t, []string{"render", "scroll"}, paged.Effects)

	resp = ts.api.Post(path+"/events", map[string]any{"type": "page", "page": 42})
	require.Equal(t, http.StatusOK, resp.Code)
	ignored := decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data
	assert.Equal(t, 2, ignored.View.Page)
	assert.Empty(t, ignored.Effects)

	resp = ts.api.Post(path+"/events", map[string]any{"type": "category", "category": "poetry"})
	require.Equal(t, http.StatusOK, resp.Code)
	filtered := decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data
	assert.Equal(t, 1, filtered.View.Page)
	assert.Equal(t, 5, filtered.View.Stats.Total)

	resp = ts.api.Get(path)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "poetry", decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data.View.Category)

	resp = ts.api.Post(path+"/events", map[string]any{"type": "shuffle"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.api.Post(path+"/events", map[string]any{"type": "sort", "sort": "bogus"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	rejected := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", rejected.Code)
	assert.Contains(t, rejected.Details, "sort")

	resp = ts.api.Get(path)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, catalog.SortTitle, decodeEnvelope[service.SessionView](t, resp.Body.Bytes()).Data.View.SortKey)

	resp = ts.api.Delete(path)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get(path)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCatalogPage_RendersHTML(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog?sort=author&page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `<span id="total-books">30</span>`)
	assert.Contains(t, body, `aria-current="page">2</span>`)
	assert.Contains(t, body, `href="/catalog?page=3&amp;sort=author"`)
	assert.Contains(t, body, `<option value="author" selected>`)
}

func TestCatalogPage_UnknownSortFallsBackToTitle(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog?sort=bogus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="title" selected>`)
	assert.NotContains(t, body, "bogus")
}

func TestCatalogPage_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.remote.fetchErr = errors.New("timeout")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar o catálogo")
}

func TestCatalogPageURL(t *testing.T) {
	tests := []struct {
		name string
		view catalog.View
		page int
		want string
	}{
		{name: "defaults", view: catalog.View{Category: catalog.CategoryAll}, page: 1, want: "/catalog"},
		{name: "page only", view: catalog.View{Category: catalog.CategoryAll}, page: 2, want: "/catalog?page=2"},
		{name: "all params", view: catalog.View{Query: "a b", Category: "poetry", SortKey: catalog.SortYear}, page: 3, want: "/catalog?genre=poetry&page=3&q=a+b&sort=year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalogPageURL(tt.view, tt.page))
		})
	}
}

func TestCatalogPage_SharedTemplateAcrossRequests(t *testing.T) {
	ts := setupTestServer(t, Options{})

	first := httptest.NewRecorder()
	ts.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/catalog?genre=poetry", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	ts.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/catalog?sort=author", nil))
	require.Equal(t, http.StatusOK, second.Code)

	assert.Contains(t, second.Body.String(), `href="/catalog?page=2&amp;sort=author"`)
	assert.NotContains(t, second.Body.String(), "genre=poetry")

	data := catalogPageData{View: catalog.View{Category: "poetry", SortKey: catalog.SortAuthor}}
	assert.Equal(t, "/catalog?genre=poetry&page=2&sort=author", data.PageURL(2))
}
