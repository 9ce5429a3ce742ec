// ABOUTME: CLI command rendering the month board grid.
// ABOUTME: One row per date, one column per active metric, goal-met cells checked.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/models"
)

var (
	boardSelect bool
	boardFill   bool
)

const boardCellWidth = 10

var boardCmd = &cobra.Command{
	Use:     "board [YYYY-MM]",
	Aliases: []string{"b"},
	Short:   "Show the month board",
	Long: `Show a month as a grid of dates and active metrics.

Without a month, the selected month is shown, or the current month if none is selected.
Values that meet their goal are marked with ✓.

EXAMPLES:

  frame board                      # Selected or current month
  frame board 2024-05              # A specific month
  frame board 2024-05 --select     # ...and make it the default
  frame board --fill               # Create empty entries for every day of the month`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) == 1 {
			month = args[0]
		}

		data, err := store.BoardData(month)
		if err != nil {
			return err
		}
		if boardSelect {
			if err := store.SetSelectedMonth(data.Month); err != nil {
				return fmt.Errorf("failed to select month: %w", err)
			}
		}
		if boardFill {
			if err := store.EnsureMonthDays(data.Month); err != nil {
				return fmt.Errorf("failed to create days: %w", err)
			}
		}

		renderBoard(cmd.OutOrStdout(), data, store.Today())
		return nil
	},
}

func renderBoard(out io.Writer, data models.BoardData, today string) {
	bold.Fprintf(out, "%s\n\n", data.Month)
	if len(data.Metrics) == 0 {
		fmt.Fprintln(out, "No active metrics. Add one with 'frame metric add'.")
		return
	}

	fmt.Fprint(out, padRight("", 12))
	for _, m := range data.Metrics {
		fmt.Fprint(out, bold.Sprint(padRight(truncate(m.Slug, boardCellWidth-1), boardCellWidth)))
	}
	fmt.Fprintln(out)

	for _, date := range data.Dates {
		if date > today {
			break
		}
		label := padRight(date, 12)
		if date == today {
			label = bold.Sprint(label)
		}
		fmt.Fprint(out, label)

		entry := data.Days[date]
		for _, m := range data.Metrics {
			fmt.Fprint(out, formatCell(m, entry.Get(m.Slug), boardCellWidth))
		}
		fmt.Fprintln(out)
	}
}

func init() {
	boardCmd.Flags().BoolVar(&boardSelect, "select", false, "remember this month as the default")
	boardCmd.Flags().BoolVar(&boardFill, "fill", false, "create empty entries for every day of the month")
	rootCmd.AddCommand(boardCmd)
}
