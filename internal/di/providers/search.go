package providers

import (
	"github.com/samber/do/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/logger"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. It is filled by every catalog load.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Search index initialized")
	return &SearchIndexHandle{Index: index}, nil
}
