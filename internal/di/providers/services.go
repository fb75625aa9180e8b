package providers

import (
	"github.com/samber/do/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/config"
	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/service"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

// ProvideValidator provides the shared form validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	source := do.MustInvoke[service.CatalogSource](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(source, indexHandle.Index, sseHandle.Manager, m, log.WithComponent("catalog").Logger, service.CatalogOptions{
		Limit:      cfg.Seed.Limit,
		PageSize:   cfg.Catalog.PageSize,
		SessionTTL: cfg.Catalog.SessionTTL,
	}), nil
}

// ProvideBookService provides the book manager service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*PlaceholderClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(client.Client, v, sseHandle.Manager, m, log.WithComponent("books").Logger, service.BookOptions{
		InitialLimit:      cfg.Books.InitialLimit,
		RollbackOnFailure: cfg.Books.RollbackOnFailure,
	}), nil
}

// ProvideContactService provides the contact form service.
func ProvideContactService(i do.Injector) (*service.ContactService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContactService(storeHandle.Store, v, sseHandle.Manager, m, log.WithComponent("contact").Logger, cfg.Contact.SubmitDelay), nil
}

// ProvideTeamService provides the team directory.
func ProvideTeamService(i do.Injector) (*service.TeamService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTeamService(log.Logger), nil
}
