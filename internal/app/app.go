package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/pipecanvas/internal/config"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/engine"
	"github.com/vk/pipecanvas/internal/hcl"
	"github.com/vk/pipecanvas/internal/metrics"
	"github.com/vk/pipecanvas/internal/registry"
	"github.com/vk/pipecanvas/internal/yamlmanifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	metrics  *metrics.Metrics
	designer *engine.Designer

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, catalog and metrics.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := cfg.Logger(outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	designer, err := engine.New(engine.Options{
		Catalog:    reg,
		NodeSize:   cfg.NodeSize(),
		Thresholds: cfg.Thresholds(),
		Metrics:    m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create designer: %w", err)
	}
	logger.Debug("Designer created.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  m,
		designer: designer,
	}, nil
}

// LoadCatalog builds and validates the module registry described by cfg:
// the builtin palette unless skipped, then every HCL and YAML manifest
// found below the catalog paths.
func LoadCatalog(ctx context.Context, cfg *Config) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	reg := registry.New()

	if !cfg.SkipBuiltin {
		if err := reg.LoadBuiltin(ctx); err != nil {
			return nil, fmt.Errorf("failed to load builtin catalog: %w", err)
		}
	}
	if len(cfg.CatalogPaths) > 0 {
		loaders := []config.Loader{hcl.NewLoader(), yamlmanifest.NewLoader()}
		if err := reg.LoadPaths(ctx, cfg.CatalogPaths, loaders...); err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}

	logger.Info("Catalog ready.", "modules", len(reg.Modules()), "categories", len(reg.Categories()))
	return reg, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Designer returns the engine behind the renderer transport.
func (a *App) Designer() *engine.Designer {
	return a.designer
}
