// Package store persists contact form submissions in Badger.
package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Contacts is the append-only contact form log.
	Contacts *Entity[domain.ContactMessage]
}

// New opens (or creates) the database at path. An empty path opens an in-memory
// database, which tests use.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	s.Contacts = NewEntity[domain.ContactMessage](s, "contact:").
		WithIndex("email", func(m *domain.ContactMessage) []string {
			return []string{strings.ToLower(m.Email)}
		})

	if logger != nil {
		logger.Info("badger database opened", "path", path, "in_memory", path == "")
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}
