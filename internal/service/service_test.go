package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/placeholder"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func numberedItems(n int) []catalog.RawItem {
	items := make([]catalog.RawItem, n)
	for i := range items {
		id := int64(i + 1)
		items[i] = catalog.RawItem{
			ID:    id,
			Title: fmt.Sprintf("Title %02d", id),
			Body:  fmt.Sprintf("Body of post %d", id),
		}
	}
	return items
}

// fakeRemote serves items and records writes. Setting an err field makes that call fail.
type fakeRemote struct {
	mu    sync.Mutex
	items []catalog.RawItem

	fetchErr, createErr, updateErr, deleteErr error

	fetches atomic.Int32
	calls   []string
}

func (f *fakeRemote) FetchItems(context.Context) ([]catalog.RawItem, error) {
	f.fetches.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]catalog.RawItem(nil), f.items...), nil
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRemote) CreatePost(_ context.Context, in placeholder.PostInput) (catalog.RawItem, error) {
	f.record("create")
	if f.createErr != nil {
		return catalog.RawItem{}, f.createErr
	}
	return catalog.RawItem{ID: 101, UserID: in.UserID, Title: in.Title, Body: in.Body}, nil
}

func (f *fakeRemote) UpdatePost(_ context.Context, id int64, in placeholder.PostInput) (catalog.RawItem, error) {
	f.record(fmt.Sprintf("update %d", id))
	if f.updateErr != nil {
		return catalog.RawItem{}, f.updateErr
	}
	return catalog.RawItem{ID: id, Title: in.Title, Body: in.Body}, nil
}

func (f *fakeRemote) DeletePost(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("delete %d", id))
	return f.deleteErr
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var errUpstreamDown = errors.New("upstream down")

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	if e, ok := event.(sse.Event); ok {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	}
}

func (r *recordingEmitter) Types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
