// ABOUTME: CLI command for moving the board between storage backends.
// ABOUTME: Copies everything from the configured backend into another one in a single commit.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/config"
	"github.com/harperreed/frame/internal/storage"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the board to another storage backend",
	Long: `Copy every metric and day entry from the configured backend into another one.

The destination is opened with the same settings, only the backend changes.
A destination that already holds data is refused unless --force is given,
in which case its contents are replaced.

USAGE:

  frame migrate --to yaml --dry-run   # Preview what would be copied
  frame migrate --to yaml             # Copy sqlite → yaml
  frame config set backend yaml       # Then switch over`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := strings.ToLower(strings.TrimSpace(migrateTo))
		if to == "" {
			return fmt.Errorf("--to is required (one of %s)", strings.Join(config.Backends, ", "))
		}
		if to == backend.Name() {
			return fmt.Errorf("the board is already stored in %s", to)
		}

		out := cmd.OutOrStdout()
		snap := store.Snapshot()
		if migrateDryRun {
			yellow.Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintf(out, "Would copy %d metrics and %d days from %s to %s.\n",
				len(snap.Metrics), len(snap.Days), backend.Name(), to)
			return nil
		}

		dstCfg := *cfg
		dstCfg.Backend = to
		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", to, err)
		}
		defer func() { _ = dst.Close() }()

		existing, err := dst.Load()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", to, err)
		}
		if (len(existing.Metrics) > 0 || len(existing.Days) > 0) && !migrateForce {
			return fmt.Errorf("%s already holds %d metrics and %d days; use --force to replace them",
				to, len(existing.Metrics), len(existing.Days))
		}

		summary, err := storage.MigrateData(backend, dst)
		if err != nil {
			return err
		}
		logger.Info("migrated board", "from", backend.Name(), "to", to, "metrics", summary.Metrics, "days", summary.Days)

		green.Fprintf(out, "✓ Migrated %s → %s\n", backend.Name(), to)
		fmt.Fprintf(out, "  Metrics: %d\n", summary.Metrics)
		fmt.Fprintf(out, "  Days:    %d\n", summary.Days)
		fmt.Fprintf(out, "  Values:  %d\n", summary.Values)
		fmt.Fprintf(out, "\nSwitch over with: frame config set backend %s\n", to)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace data already in the destination")
	rootCmd.AddCommand(migrateCmd)
}
