// Package sse streams catalog and book manager changes to browsers with Server-Sent Events.
package sse

import (
	"time"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

// Event types.
const (
	EventCatalogReloaded EventType = "catalog.reloaded"

	EventBookCreated    EventType = "book.created"
	EventBookUpdated    EventType = "book.updated"
	EventBookDeleted    EventType = "book.deleted"
	EventBookRolledBack EventType = "book.rolled_back"

	EventContactReceived EventType = "contact.received"

	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on the stream.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// CatalogReloadedData is the payload of catalog.reloaded.
type CatalogReloadedData struct {
	Count int `json:"count"`
}

// BookEventData is the payload of the book.* events.
type BookEventData struct {
	Book domain.Book `json:"book"`
	// Reason is set on book.rolled_back.
	Reason string `json:"reason,omitempty"`
}

// ContactReceivedData deliberately carries no personal data.
type ContactReceivedData struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
}

func newEvent(t EventType, data any) Event {
	return Event{Type: t, Timestamp: time.Now(), Data: data}
}

// NewCatalogReloadedEvent creates a catalog.reloaded event.
func NewCatalogReloadedEvent(count int) Event {
	return newEvent(EventCatalogReloaded, CatalogReloadedData{Count: count})
}

// NewBookEvent creates a book.created, book.updated or book.deleted event.
func NewBookEvent(t EventType, book domain.Book) Event {
	return newEvent(t, BookEventData{Book: book})
}

// NewBookRolledBackEvent reports an optimistic write undone after an upstream failure.
func NewBookRolledBackEvent(book domain.Book, reason string) Event {
	return newEvent(EventBookRolledBack, BookEventData{Book: book, Reason: reason})
}

// NewContactReceivedEvent creates a contact.received event.
func NewContactReceivedEvent(id, subject string) Event {
	return newEvent(EventContactReceived, ContactReceivedData{ID: id, Subject: subject})
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return newEvent(EventHeartbeat, nil)
}
