package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/config"
	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
	"github.com/bibliotecaonline/biblioteca-server/internal/watcher"
)

// SessionJanitor periodically drops idle catalog view sessions.
type SessionJanitor struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionJanitor) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionJanitor starts the view session sweeper.
func ProvideSessionJanitor(i do.Injector) (*SessionJanitor, error) {
	catalogService := do.MustInvoke[*service.CatalogService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	go catalogService.RunSessionJanitor(ctx, sessionSweepInterval)

	log.Info("Session janitor started", "interval", sessionSweepInterval)
	return &SessionJanitor{cancel: cancel}, nil
}

// SeedReloaderHandle wraps the seed file watcher with shutdown capability.
// Watcher is nil when watching is disabled.
type SeedReloaderHandle struct {
	Watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SeedReloaderHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.Watcher != nil {
		return h.Watcher.Stop()
	}
	return nil
}

// ProvideSeedReloader watches the seed file and reloads the catalog when it changes.
// It only runs when a seed file is configured and watching is enabled.
func ProvideSeedReloader(i do.Injector) (*SeedReloaderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Seed.File == "" || !cfg.Seed.Watch {
		log.Info("Seed file watching disabled")
		return &SeedReloaderHandle{}, nil
	}

	catalogService := do.MustInvoke[*service.CatalogService](i)

	w, err := watcher.New(log.WithComponent("watcher").Logger, watcher.Options{IgnoreHidden: true})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(cfg.Seed.File); err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go service.NewSeedReloader(catalogService, w, log.Logger).Run(ctx)

	log.Info("Watching seed file", "path", cfg.Seed.File)
	return &SeedReloaderHandle{Watcher: w, cancel: cancel}, nil
}

// WarmUp loads the catalog and the managed book list in the background so the first
// page view does not pay for the upstream round trip. Failures are logged; the next
// request retries.
func WarmUp(i do.Injector) {
	catalogService := do.MustInvoke[*service.CatalogService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if books, err := catalogService.Load(ctx); err != nil {
			log.Warn("Initial catalog load failed", "error", err)
		} else {
			log.Info("Catalog loaded", "books", len(books))
		}
		if books, err := bookService.Load(ctx); err != nil {
			log.Warn("Initial book list load failed", "error", err)
		} else {
			log.Info("Book list loaded", "books", len(books))
		}
	}()
}
