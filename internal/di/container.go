// Package di provides dependency injection configuration for the Biblioteca server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/config"
	"github.com/bibliotecaonline/biblioteca-server/internal/di/providers"
	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Events, metrics and storage
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Upstream
	do.Provide(injector, providers.ProvidePlaceholderClient)
	do.Provide(injector, providers.ProvideCatalogSource)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideContactService)
	do.Provide(injector, providers.ProvideTeamService)

	// Workers
	do.Provide(injector, providers.ProvideSessionJanitor)
	do.Provide(injector, providers.ProvideSeedReloader)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.PlaceholderClientHandle](injector)
	_ = do.MustInvoke[service.CatalogSource](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	// Business services
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ContactService](injector)
	_ = do.MustInvoke[*service.TeamService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionJanitor](injector)
	if _, err := do.Invoke[*providers.SeedReloaderHandle](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.WarmUp(injector)
	return nil
}
