package config

import (
	"context"

	"github.com/vk/pipecanvas/internal/model"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Extensions lists the file extensions the loader understands,
	// lower-case and including the leading dot.
	Extensions() []string

	// LoadBytes parses a single manifest held in memory. The filename is
	// used for diagnostics only.
	LoadBytes(ctx context.Context, src []byte, filename string) (*model.Catalog, error)
}
