// ABOUTME: CLI commands for logging and clearing daily values.
// ABOUTME: Parses slug=value pairs by metric type and merges them into one day entry.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/models"
)

var logCmd = &cobra.Command{
	Use:   "log <date|today|yesterday> <slug=value>...",
	Short: "Log values for a day",
	Long: `Log one or more metric values for a day. Values merge with what is already logged.

VALUES:

  number metrics    612.50, 4, 0.5
  boolean metrics   yes/no, true/false, y/n, 1/0, done
  any metric        null (clears the value)

EXAMPLES:

  frame log today workout=yes income=612.50
  frame log yesterday deep_work=3.5
  frame log 2024-06-01 workout=no`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(args[0], store.Today())
		if err != nil {
			return err
		}

		values, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		if err := store.UpsertDayEntry(date, values); err != nil {
			return fmt.Errorf("failed to log values: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Logged %s\n", date)

		slugs := make([]string, 0, len(values))
		for slug := range values {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		for _, slug := range slugs {
			m, _ := store.MetricBySlug(slug)
			text, _ := cellText(m, values[slug])
			fmt.Fprintf(out, "  %s %s\n", padRight(slug, 16), text)
		}
		return nil
	},
}

// parseAssignments turns slug=value arguments into typed values using each metric's type.
func parseAssignments(args []string) (map[string]models.Value, error) {
	values := make(map[string]models.Value, len(args))
	for _, arg := range args {
		slug, raw, ok := strings.Cut(arg, "=")
		slug = strings.TrimSpace(slug)
		if !ok || slug == "" {
			return nil, fmt.Errorf("invalid value %q (use slug=value)", arg)
		}

		m, found := store.MetricBySlug(slug)
		if !found {
			return nil, fmt.Errorf("%w: metric %q (see 'frame metric list')", models.ErrNotFound, slug)
		}
		v, err := models.ParseValue(m.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", slug, err)
		}
		values[m.Slug] = v
	}
	return values, nil
}

var clearCmd = &cobra.Command{
	Use:   "clear <date|today|yesterday> <slug>",
	Short: "Clear a logged value",
	Long: `Set a metric's value for a day back to empty. The day entry itself is kept.

EXAMPLE:

  frame clear today income`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(args[0], store.Today())
		if err != nil {
			return err
		}
		if err := store.ClearValue(date, args[1]); err != nil {
			return fmt.Errorf("failed to clear value: %w", err)
		}

		yellow.Fprintf(cmd.OutOrStdout(), "✗ Cleared %s on %s\n", args[1], date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(clearCmd)
}
