// ABOUTME: CLI command that clears the board.
// ABOUTME: Deletes every metric and day entry from the configured backend.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every metric and day entry",
	Long: `Delete every metric and day entry from the configured backend.

This cannot be undone. Take a backup first with 'frame export -o backup.json'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetYes {
			yellow.Fprintf(out, "This deletes %d metrics and %d days from the %s backend.\n",
				len(store.Metrics()), len(store.Days()), backend.Name())
			fmt.Fprintln(out, "Run again with --yes to continue.")
			return nil
		}
		if err := store.Reset(); err != nil {
			return err
		}
		green.Fprintln(out, "✓ Board cleared")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation")
	rootCmd.AddCommand(resetCmd)
}
