package placeholder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Options{BaseURL: server.URL + "/", RequestsPerSecond: 100, Burst: 100},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.http = server.Client()
	t.Cleanup(client.Close)

	return client
}

func TestClient_FetchItems(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantCount  int
		wantErr    error
	}{
		{
			name:       "posts",
			statusCode: http.StatusOK,
			response:   `[{"userId":1,"id":1,"title":"sunt aut facere","body":"quia et suscipit"},{"userId":1,"id":2,"title":"qui est esse","body":"est rerum"}]`,
			wantCount:  2,
		},
		{name: "empty", statusCode: http.StatusOK, response: `[]`, wantCount: 0},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", statusCode: http.StatusBadGateway, wantErr: ErrServer},
		{name: "not found", statusCode: http.StatusNotFound, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/posts", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				_, _ = io.WriteString(w, tt.response)
			})

			items, err := client.FetchItems(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var opErr *Error
				require.ErrorAs(t, err, &opErr)
				assert.Equal(t, "list", opErr.Op)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, "qui est esse", items[1].Title)
				assert.Equal(t, "est rerum", items[1].Body)
			}
		})
	}
}

func TestClient_FetchItems_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})

	_, err := client.FetchItems(context.Background())
	assert.Error(t, err)
}

func TestClient_CreatePost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var in PostInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, int64(DefaultUserID), in.UserID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 101, "title": in.Title, "body": in.Body, "userId": in.UserID})
	})

	item, err := client.CreatePost(context.Background(), PostInput{Title: "Grande Sertão", Body: "Veredas"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), item.ID)
	assert.Equal(t, "Grande Sertão", item.Title)
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			_, _ = io.WriteString(w, `{}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":7,"title":"updated","body":"b","userId":1}`)
	})

	item, err := client.UpdatePost(context.Background(), 7, PostInput{Title: "updated", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "updated", item.Title)

	require.NoError(t, client.DeletePost(context.Background(), 7))
	assert.Equal(t, []string{"PUT /posts/7", "DELETE /posts/7"}, seen)
}

func TestClient_DeleteFailureCarriesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.DeletePost(context.Background(), 42)
	require.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "post 42")
}

func TestClient_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchItems(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":3,"title":"t","body":"b"}]`), 0o600))

	items, err := FileSource{Path: path}.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].ID)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.FetchItems(context.Background())
	assert.Error(t, err)
}
