package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/fsutil"
	"github.com/vk/pipecanvas/internal/model"
)

// Load discovers every manifest below paths, parses each with the loader
// registered for its extension and merges the results into one catalog.
// Paths that do not exist are skipped.
func Load(ctx context.Context, paths []string, loaders ...Loader) (*model.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	byExt := make(map[string]Loader)
	var exts []string
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			ext = strings.ToLower(ext)
			if _, dup := byExt[ext]; dup {
				return nil, fmt.Errorf("extension %q is claimed by more than one loader", ext)
			}
			byExt[ext] = l
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("no manifest loaders configured")
	}

	files, err := fsutil.CollectFiles(paths, exts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	catalog := model.NewCatalog()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", file, err)
		}
		loader := byExt[strings.ToLower(filepath.Ext(file))]
		part, err := loader.LoadBytes(ctx, src, file)
		if err != nil {
			return nil, err
		}
		if err := catalog.Merge(part); err != nil {
			return nil, fmt.Errorf("failed to merge manifest %s: %w", file, err)
		}
	}

	logger.Debug("Manifest loading complete.", "files", len(files), "modules", catalog.Len())
	return catalog, nil
}
