// ABOUTME: CLI commands for exporting and importing the board.
// ABOUTME: Export writes JSON, YAML, or a Markdown report; import restores a JSON or YAML backup.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/storage"
)

var (
	exportOutput string
	exportSince  string
	importYes    bool
)

var exportCmd = &cobra.Command{
	Use:   "export [json|yaml|markdown]",
	Short: "Export the board",
	Long: `Export every metric and day entry.

FORMATS:

  json       full backup, restorable with 'frame import' (default)
  yaml       full backup, restorable with 'frame import'
  markdown   human-readable report with one table per month

EXAMPLES:

  frame export > backup.json
  frame export yaml -o backup.yaml
  frame export markdown --since 2024-01-01 -o report.md`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := "json"
		if len(args) == 1 {
			format = strings.ToLower(args[0])
		}
		if exportSince != "" {
			since, err := parseDay(exportSince, store.Today())
			if err != nil {
				return err
			}
			exportSince = since
		}

		snap := *store.Snapshot()
		now := time.Now()

		var data []byte
		switch format {
		case "json":
			out, err := storage.ExportJSON(snap, now)
			if err != nil {
				return err
			}
			data = append(out, '\n')
		case "yaml", "yml":
			out, err := storage.ExportYAML(snap, now)
			if err != nil {
				return err
			}
			data = out
		case "markdown", "md":
			data = []byte(storage.ExportMarkdown(snap, now, exportSince))
		default:
			return fmt.Errorf("unknown export format %q (use json, yaml, or markdown)", format)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s\n", format, exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the board from a backup",
	Long: `Replace the whole board with a JSON or YAML backup made by 'frame export'.

Everything currently stored is discarded. Pass --yes to confirm.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		data, err := storage.ImportAuto(raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !importYes {
			yellow.Fprintf(out, "This replaces %d metrics and %d days with %d metrics and %d days from %s.\n",
				len(store.Metrics()), len(store.Days()), len(data.Metrics), len(data.Days), args[0])
			fmt.Fprintln(out, "Run again with --yes to continue.")
			return nil
		}

		if err := store.Restore(data.Board()); err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}
		green.Fprintf(out, "✓ Imported %d metrics and %d days\n", len(data.Metrics), len(data.Days))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "markdown only: first date to include")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace the current board without asking")

	rootCmd.AddCommand(exportCmd, importCmd)
}
