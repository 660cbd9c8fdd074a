package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/pipecanvas/internal/probe"
)

func newProbeCommand(outW io.Writer) *cobra.Command {
	var opts probe.Options

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Connect to a running server and print its workflow status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := probe.Dial(ctx, opts)
			if err != nil {
				return err
			}
			defer client.Close()

			g, err := client.Graph(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(outW, "%s: %s\n", opts.URL, g.Text)
			for _, n := range g.Nodes {
				fmt.Fprintf(outW, "  %-10s %-16s %s\n", n.ID, n.ModuleID, n.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "http://localhost:8080", "Base URL of the pipecanvas server.")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "/", "socket.io namespace.")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Timeout for connecting and for the request.")
	cmd.Flags().BoolVar(&opts.InsecureSkipVerify, "insecure", false, "Skip TLS certificate verification.")
	return cmd
}
