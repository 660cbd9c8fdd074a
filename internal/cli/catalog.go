package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/pipecanvas/internal/app"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/hcl"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/registry"
	"github.com/vk/pipecanvas/internal/yamlmanifest"
)

func newCatalogCommand(outW, errW io.Writer) *cobra.Command {
	var (
		configFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the module catalog with its variants and ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			switch format {
			case "text", "yaml", "hcl":
			default:
				return &ExitError{Code: 2, Message: "invalid format: must be 'text', 'yaml' or 'hcl'"}
			}
			cfg, err := app.LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return usageError(err)
			}

			ctx := ctxlog.WithLogger(cmd.Context(), cfg.Logger(errW))
			reg, err := app.LoadCatalog(ctx, cfg)
			if err != nil {
				return err
			}

			if format == "text" {
				return printCatalog(outW, reg)
			}

			c, err := reg.Catalog()
			if err != nil {
				return err
			}
			out := hcl.Marshal(c)
			if format == "yaml" {
				if out, err = yamlmanifest.Marshal(c); err != nil {
					return fmt.Errorf("failed to render catalog: %w", err)
				}
			}
			_, err = outW.Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Optional config file (yaml, json or toml).")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format. Options: 'text', 'yaml' or 'hcl'.")
	app.RegisterCatalogFlags(cmd.Flags())
	return cmd
}

func printCatalog(w io.Writer, reg *registry.Registry) error {
	c, err := reg.Catalog()
	if err != nil {
		return err
	}

	listed := make(map[string]bool)
	for _, cat := range c.Categories {
		mods := reg.ModulesByCategory(cat.Key)
		if len(mods) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", cat.Title, cat.Key)
		for _, m := range mods {
			printModule(w, m, c.Variants[m.ID])
			listed[m.ID] = true
		}
	}

	first := true
	for _, id := range c.Order() {
		if listed[id] {
			continue
		}
		if first {
			fmt.Fprintln(w, "Uncategorized")
			first = false
		}
		printModule(w, c.Modules[id], c.Variants[id])
	}
	return nil
}

func printModule(w io.Writer, m *model.ModuleDefinition, variants []model.VariantDefinition) {
	fmt.Fprintf(w, "  %-16s %-22s %s\n", m.ID, m.Name, m.Kind)
	for _, v := range variants {
		fmt.Fprintf(w, "      variant %-16s in: %s  out: %s\n", v.ID,
			portList(v.PortsOf(model.Input)), portList(v.PortsOf(model.Output)))
	}
}

// portList renders ports as name:type, marking optional ones with '?'.
func portList(ports []model.PortDefinition) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		s := fmt.Sprintf("%s:%s", p.Name, p.EffectiveType())
		if p.Optional {
			s += "?"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
