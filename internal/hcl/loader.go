package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/model"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// LoadBytes parses one HCL manifest and translates it into a catalog.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*model.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	catalog := model.NewCatalog()
	for _, c := range root.Categories {
		catalog.AddCategory(model.Category{Key: c.Key, Title: c.Title})
	}
	for _, m := range root.Modules {
		def, variants, diags := translateModule(m, filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid module %q in %s: %w", m.ID, filename, diags)
		}
		if err := catalog.AddModule(def, variants); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL manifest loaded.", "file", filename, "modules", catalog.Len(), "categories", len(catalog.Categories))
	return catalog, nil
}
