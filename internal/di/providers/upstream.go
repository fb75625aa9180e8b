package providers

import (
	"github.com/samber/do/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/config"
	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/placeholder"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
)

// PlaceholderClientHandle wraps the placeholder client with shutdown capability.
type PlaceholderClientHandle struct {
	*placeholder.Client
}

// Shutdown implements do.Shutdownable.
func (h *PlaceholderClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvidePlaceholderClient provides the rate-limited client for the placeholder service.
func ProvidePlaceholderClient(i do.Injector) (*PlaceholderClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := placeholder.New(placeholder.Options{
		BaseURL:           cfg.Seed.BaseURL,
		Timeout:           cfg.Seed.Timeout,
		RequestsPerSecond: cfg.Seed.RequestsPerSecond,
	}, log.WithComponent("placeholder").Logger)

	return &PlaceholderClientHandle{Client: client}, nil
}

// ProvideCatalogSource picks where catalog seed items come from: the local seed file
// when one is configured, the placeholder service otherwise.
func ProvideCatalogSource(i do.Injector) (service.CatalogSource, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Seed.File != "" {
		log.Info("Catalog seeded from file", "path", cfg.Seed.File)
		return placeholder.FileSource{Path: cfg.Seed.File}, nil
	}

	client := do.MustInvoke[*PlaceholderClientHandle](i)
	log.Info("Catalog seeded from placeholder service", "base_url", cfg.Seed.BaseURL)
	return client.Client, nil
}
