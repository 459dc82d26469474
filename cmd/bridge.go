package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"testtrail/internal/bridge"
	"testtrail/internal/config"
)

func newBridgeCmd() *cobra.Command {
	var transport string
	var port int
	var color bool

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Print console tasks sent by recorders in other processes",
		Long: `Runs the console bridge: an MCP server with a single "console" tool that
prints test progress tasks as tree-indented lines.

With --transport streamable-http recorders connect to
http://localhost:<port>/mcp (set bridge.transport and bridge.endpoint in
testtrail.yaml). With --transport stdio the bridge talks MCP on standard input
and output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := bridge.NewServer(bridge.NewPrinter(cmd.OutOrStdout(), bridge.WithColor(color)), rootCmd.Version)

			switch transport {
			case "stdio":
				return srv.ServeStdio()
			case config.TransportStreamableHTTP:
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return srv.ServeHTTP(ctx, fmt.Sprintf(":%d", port))
			default:
				return fmt.Errorf("unsupported transport %q (use stdio or %s)", transport, config.TransportStreamableHTTP)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStreamableHTTP, "Transport: stdio or streamable-http")
	cmd.Flags().IntVar(&port, "port", 8099, "Port for the streamable-http transport")
	cmd.Flags().BoolVar(&color, "color", isTerminal(os.Stdout), "Color test states")
	return cmd
}
