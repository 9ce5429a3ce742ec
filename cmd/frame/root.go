// ABOUTME: Root Cobra command for frame CLI.
// ABOUTME: Loads config and opens the storage backend and board store via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/board"
	"github.com/harperreed/frame/internal/config"
	"github.com/harperreed/frame/internal/storage"
)

// skipStoreAnnotation marks commands that must not open the backend.
const skipStoreAnnotation = "frame/skip-store"

var (
	cfg     *config.Config
	backend storage.Backend
	store   *board.Store
	logger  *log.Logger

	flagBackend   string
	flagDataDir   string
	flagLogLevel  string
	flagEphemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "frame",
	Short: "Daily metric and goal board",
	Long: `Frame tracks a handful of daily metrics against goals and shows how you are doing.

METRICS:

  number    a quantity with a goal: at_least, at_most, or exact
  boolean   a yes/no habit with a days-per-week target

QUICK START:

  $ frame metric add Workout --type boolean --goal 5
  $ frame metric add Income --unit usd --goal 500 --weight 1
  $ frame log today workout=yes income=612.50
  $ frame board                          # Month grid with goal check marks
  $ frame streak workout                 # Consecutive days logged
  $ frame compliance                     # Goal completion over the last 30 days

STORAGE:

  sqlite (default), badger, yaml, redis, charm (synced through Charm Cloud), or memory.
  Select with --backend or 'frame config set backend <name>'.

MCP INTEGRATION:

  Run 'frame mcp' to start the Model Context Protocol server for AI assistants:

  {
    "mcpServers": {
      "frame": { "command": "frame", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)
		logger = cfg.Logger()

		if skipsStore(cmd) {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func applyFlagOverrides(c *config.Config) {
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if flagEphemeral {
		c.Backend = "memory"
	}
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStoreAnnotation] == "true" {
			return true
		}
	}
	return cmd.Name() == "help" || cmd.Name() == "completion"
}

func openStore() error {
	// A failed command skips PostRun and can leave the previous backend open.
	if err := closeStore(); err != nil {
		logger.Warn("closing previous store", "err", err)
	}
	b, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	s, err := storage.OpenStore(b, board.WithLogger(logger))
	if err != nil {
		_ = b.Close()
		return fmt.Errorf("failed to load board: %w", err)
	}

	backend, store = b, s
	logger.Debug("store opened", "backend", b.Name(), "metrics", len(s.Metrics()), "days", len(s.Days()))
	return nil
}

func closeStore() error {
	if backend == nil {
		return nil
	}
	err := backend.Close()
	backend, store = nil, nil
	return err
}

func skipStore() map[string]string {
	return map[string]string{skipStoreAnnotation: "true"}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite, badger, yaml, redis, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for local backends")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "use an in-memory board that is discarded on exit")
}
