package placeholder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
)

// FileSource reads posts from a local JSON file shaped like the /posts response.
type FileSource struct {
	Path string
}

// FetchItems reads and decodes the file on every call.
func (f FileSource) FetchItems(ctx context.Context) ([]catalog.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var items []catalog.RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", f.Path, err)
	}
	return items, nil
}
