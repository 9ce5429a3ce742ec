// ABOUTME: CLI commands for viewing and editing the config file.
// ABOUTME: show prints the effective settings, set writes one key, path prints the file location.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change settings stored in the config file.

Environment variables override the file: FRAME_BACKEND, FRAME_DATA_DIR,
FRAME_LOG_LEVEL, FRAME_REDIS_ADDR, and so on.

KEYS:

  ` + strings.Join(config.Keys(), "\n  "),
	Annotations: skipStore(),
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective settings",
	Args:        cobra.NoArgs,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		row := func(k, v string) {
			fmt.Fprintf(out, "%s %s\n", padRight(k, 16), v)
		}
		row("backend", cfg.GetBackend())
		row("data_dir", cfg.GetDataDir())
		row("log_level", cfg.GetLogLevel())
		format := cfg.LogFormat
		if format == "" {
			format = "text"
		}
		row("log_format", format)
		row("redis_addr", cfg.GetRedisAddr())
		row("redis_db", fmt.Sprint(cfg.RedisDB))
		row("redis_prefix", cfg.RedisPrefix)
		row("charm_db", cfg.GetCharmDB())
		if cfg.RedisPassword != "" {
			row("redis_password", "********")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Write one setting to the config file",
	Args:        cobra.ExactArgs(2),
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reload without flag overrides so they are not persisted.
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
