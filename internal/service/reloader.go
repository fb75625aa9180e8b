package service

import (
	"context"
	"log/slog"

	"github.com/bibliotecaonline/biblioteca-server/internal/watcher"
)

// SeedReloader reloads the catalog whenever the local seed file settles after a change.
type SeedReloader struct {
	catalog *CatalogService
	watcher *watcher.Watcher
	logger  *slog.Logger
}

// NewSeedReloader creates a reloader. The watcher must already watch the seed file.
func NewSeedReloader(catalog *CatalogService, w *watcher.Watcher, logger *slog.Logger) *SeedReloader {
	return &SeedReloader{catalog: catalog, watcher: w, logger: logger}
}

// Run blocks until ctx is done, starting the watcher and reloading on every settled
// add or modify event. Removals keep the last good catalog.
func (r *SeedReloader) Run(ctx context.Context) {
	go func() {
		if err := r.watcher.Start(ctx); err != nil {
			r.logger.Error("seed watcher stopped", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events():
			if !ok {
				return
			}
			if event.Type == watcher.EventRemoved {
				r.logger.Warn("seed file removed, keeping current catalog", "path", event.Path)
				continue
			}
			r.logger.Info("seed file changed, reloading catalog", "path", event.Path, "change", event.Type.String())
			if _, err := r.catalog.Load(ctx); err != nil {
				r.logger.Error("catalog reload failed", "error", err)
			}
		case err, ok := <-r.watcher.Errors():
			if !ok {
				return
			}
			r.logger.Warn("seed watcher error", "error", err)
		}
	}
}
