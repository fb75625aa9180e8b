// Package service implements the catalog, book manager, contact form and team directory
// on top of the pure catalog engine and the storage and transport packages.
package service

import (
	"context"
	"time"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
)

// EventEmitter receives change events for the SSE stream. *sse.Manager implements it.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// Emit does nothing.
func (NoopEmitter) Emit(any) {}

// CatalogSource supplies the ordered raw items the catalog is built from.
type CatalogSource interface {
	FetchItems(ctx context.Context) ([]catalog.RawItem, error)
}

// NoticeKind tells the page how to style a notice.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

const (
	successDismiss = 3 * time.Second
	errorDismiss   = 5 * time.Second
)

// Notice is the transient message shown after an action.
type Notice struct {
	Kind           NoticeKind `json:"kind"`
	Message        string     `json:"message"`
	DismissAfterMs int64      `json:"dismissAfterMs"`
}

func successNotice(msg string) Notice {
	return Notice{Kind: NoticeSuccess, Message: msg, DismissAfterMs: successDismiss.Milliseconds()}
}

// ErrorNotice builds the notice shown next to a failed action.
func ErrorNotice(msg string) Notice {
	return Notice{Kind: NoticeError, Message: msg, DismissAfterMs: errorDismiss.Milliseconds()}
}
