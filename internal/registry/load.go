package registry

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/vk/pipecanvas/internal/config"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/hcl"
)

//go:embed builtin/*.hcl
var builtinFS embed.FS

// LoadBuiltin populates the registry with the palette shipped in the binary.
func (r *Registry) LoadBuiltin(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading builtin catalog...")

	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return fmt.Errorf("failed to read builtin catalog: %w", err)
	}

	loader := hcl.NewLoader()
	for _, entry := range entries {
		name := path.Join("builtin", entry.Name())
		src, err := builtinFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read builtin manifest %s: %w", name, err)
		}
		c, err := loader.LoadBytes(ctx, src, name)
		if err != nil {
			return err
		}
		if err := r.Populate(c); err != nil {
			return fmt.Errorf("failed to merge builtin manifest %s: %w", name, err)
		}
	}

	logger.Debug("Builtin catalog loaded.", "files", len(entries))
	return nil
}

// LoadPaths populates the registry with every manifest found below paths.
func (r *Registry) LoadPaths(ctx context.Context, paths []string, loaders ...config.Loader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading manifests...", "paths", paths)

	c, err := config.Load(ctx, paths, loaders...)
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		logger.Warn("No modules found in manifest paths.", "paths", paths)
	}
	if err := r.Populate(c); err != nil {
		return err
	}

	logger.Info("Registry loaded successfully.", "modules_loaded", c.Len())
	return nil
}
