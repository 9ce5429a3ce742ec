// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Serves the board over stdio until the client disconnects or a signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server talks over stdin/stdout. Logs go to stderr, so raise --log-level to
info to see assistant events as they are applied.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "frame": {
        "command": "frame",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  define_metric       Create a metric with a goal
  log_day             Log several values for one date
  list_metrics        List metric definitions
  toggle_metric       Activate or deactivate a metric
  get_stats           Sum, count, and average over a range
  get_streak          Consecutive days logged
  get_goal_history    Per-day goal outcomes
  get_compliance      Weighted metric compliance
  get_board           Month grid of values

AVAILABLE RESOURCES:

  frame://board        Selected month's board
  frame://today        Today's values and what is still missing
  frame://compliance   Compliance over the last 30 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		logger.Info("mcp server starting", "backend", backend.Name())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
