package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/pipecanvas/internal/app"
)

func newServeCommand(outW, errW io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve the designer over HTTP and socket.io",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return usageError(err)
			}

			a, err := app.NewApp(errW, cfg)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Optional config file (yaml, json or toml).")
	app.RegisterFlags(cmd.Flags())
	return cmd
}
