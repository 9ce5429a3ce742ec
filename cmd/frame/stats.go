// ABOUTME: CLI commands for aggregate views of logged values.
// ABOUTME: stats, streak, history, and compliance over date windows ending today.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/models"
	"github.com/harperreed/frame/internal/storage"
)

var (
	rangeFrom       string
	rangeTo         string
	complianceDays  int
	historyShowMiss bool
)

// resolveRange defaults to the first of the current month through today.
func resolveRange(today string) (string, string, error) {
	start, end := rangeFrom, rangeTo
	if end == "" {
		end = today
	}
	if start == "" {
		start = models.MonthOf(today) + "-01"
	}
	var err error
	if start, err = parseDay(start, today); err != nil {
		return "", "", err
	}
	if end, err = parseDay(end, today); err != nil {
		return "", "", err
	}
	return start, end, nil
}

var statsCmd = &cobra.Command{
	Use:   "stats <slug>",
	Short: "Sum, count, and average for a metric",
	Long: `Summarize a metric over a date window. Dates after today are ignored.

For boolean metrics the checked count is the number of days logged yes.

EXAMPLES:

  frame stats income                          # This month so far
  frame stats income --from 2024-05-01 --to 2024-05-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}
		start, end, err := resolveRange(store.Today())
		if err != nil {
			return err
		}
		stats, err := store.MetricStats(m.Slug, start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold.Fprintf(out, "%s  %s → %s\n", m.Name, start, end)
		if m.Type == models.MetricBoolean {
			fmt.Fprintf(out, "  checked  %d of %d days\n", stats.CheckedCount, stats.TotalDays)
			return nil
		}
		fmt.Fprintf(out, "  sum      %s %s\n", formatNumber(stats.Sum), m.Unit)
		fmt.Fprintf(out, "  count    %d of %d days\n", stats.Count, stats.TotalDays)
		fmt.Fprintf(out, "  average  %.2f %s\n", stats.Avg, m.Unit)
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak <slug>",
	Short: "Consecutive days logged",
	Long: `Count consecutive days with a yes or a number above zero, ending today.

If today is not logged yet, the streak ending yesterday is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}
		n := store.Streak(m.Slug)

		out := cmd.OutOrStdout()
		if n == 0 {
			fmt.Fprintf(out, "%s: no current streak\n", m.Name)
			return nil
		}
		unit := "days"
		if n == 1 {
			unit = "day"
		}
		green.Fprintf(out, "%s: %d %s 🔥\n", m.Name, n, unit)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <slug>",
	Short: "Per-day goal outcomes for a metric",
	Long: `List each logged day in the window and whether it met the goal.

EXAMPLES:

  frame history workout
  frame history workout --from 2024-05-01 --misses`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}
		start, end, err := resolveRange(store.Today())
		if err != nil {
			return err
		}
		days, err := store.GoalMetHistory(m.Slug, start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(days) == 0 {
			fmt.Fprintf(out, "No %s values between %s and %s.\n", m.Slug, start, end)
			return nil
		}

		met := 0
		for _, d := range days {
			if d.GoalMet {
				met++
				if !historyShowMiss {
					green.Fprintf(out, "%s ✓\n", d.Date)
				}
				continue
			}
			fmt.Fprintf(out, "%s %s\n", d.Date, faint.Sprint("✗"))
		}
		fmt.Fprintf(out, "\n%d of %d days met the goal (%s)\n", met, len(days), storage.DescribeGoal(m))
		return nil
	},
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Goal completion for weighted metrics",
	Long: `Show how often each weighted, active metric met its goal on the days it was logged.

Give a metric a weight with 'frame metric edit <slug> --weight 1'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if complianceDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		end := store.Today()
		start, err := models.AddDays(end, -(complianceDays - 1))
		if err != nil {
			return err
		}
		rows, err := store.WeightedMetricsCompliance(start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, "No weighted metrics. Set one with 'frame metric edit <slug> --weight 1'.")
			return nil
		}

		bold.Fprintf(out, "Compliance %s → %s\n\n", start, end)
		for _, c := range rows {
			rate := fmt.Sprintf("%5.1f%%", c.ComplianceRate*100)
			if c.ComplianceRate >= 0.8 {
				rate = green.Sprint(rate)
			} else if c.ComplianceRate < 0.5 {
				rate = yellow.Sprint(rate)
			}
			fmt.Fprintf(out, "%s %s  %d/%d days  %s\n",
				padRight(c.Slug, 16), rate, c.CompletedDays, c.TrackedDays,
				faint.Sprintf("weight %s", formatNumber(c.Weight)))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, historyCmd} {
		c.Flags().StringVar(&rangeFrom, "from", "", "first date (YYYY-MM-DD, default: first of this month)")
		c.Flags().StringVar(&rangeTo, "to", "", "last date (YYYY-MM-DD, default: today)")
	}
	historyCmd.Flags().BoolVar(&historyShowMiss, "misses", false, "only list days that missed the goal")
	complianceCmd.Flags().IntVarP(&complianceDays, "days", "d", 30, "window size in days ending today")

	rootCmd.AddCommand(statsCmd, streakCmd, historyCmd, complianceCmd)
}
