package sse

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func TestManager_BroadcastsToClients(t *testing.T) {
	m := startManager(t)

	a, err := m.Connect()
	require.NoError(t, err)
	b, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	m.Emit(NewBookEvent(EventBookCreated, domain.Book{ID: 1, Title: "Dom Casmurro"}))

	for _, c := range []*Client{a, b} {
		select {
		case evt := <-c.EventChan:
			assert.Equal(t, EventBookCreated, evt.Type)
			assert.Equal(t, int64(1), evt.Data.(BookEventData).Book.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestManager_DisconnectClosesChannels(t *testing.T) {
	m := startManager(t)

	c, err := m.Connect()
	require.NoError(t, err)

	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	_, open := <-c.Done
	assert.False(t, open)
	assert.Equal(t, 0, m.ClientCount())
}

func TestManager_IgnoresForeignValues(t *testing.T) {
	m := startManager(t)
	c, err := m.Connect()
	require.NoError(t, err)

	m.Emit("not an event")

	select {
	case <-c.EventChan:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_ShutdownDrainsAndClosesClients(t *testing.T) {
	m := NewManager(quietLogger())
	go m.Start(context.Background())

	c, err := m.Connect()
	require.NoError(t, err)

	m.Emit(NewCatalogReloadedEvent(50))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx))

	evt, ok := <-c.EventChan
	require.True(t, ok)
	assert.Equal(t, EventCatalogReloaded, evt.Type)

	_, ok = <-c.EventChan
	assert.False(t, ok)

	m.Emit(NewCatalogReloadedEvent(1))
}

func TestHandler_StreamsEvents(t *testing.T) {
	m := startManager(t)
	server := httptest.NewServer(NewHandler(m, quietLogger()))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	m.Emit(NewContactReceivedEvent("msg-1", "doacao"))

	var got []string
	for len(got) < 4 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		got = append(got, strings.TrimSpace(line))
	}
	assert.Contains(t, got, "event: contact.received")
}

func TestHandler_RejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewManager(quietLogger()), quietLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
