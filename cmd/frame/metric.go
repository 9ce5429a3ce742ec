// ABOUTME: CLI commands for managing metric definitions.
// ABOUTME: Supports add, edit, list, toggle, delete, and reorder by ID prefix or slug.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/models"
	"github.com/harperreed/frame/internal/storage"
)

var (
	metricName     string
	metricType     string
	metricUnit     string
	metricGoalType string
	metricGoal     float64
	metricWeight   float64
	metricColor    string
	metricListAll  bool
)

var metricCmd = &cobra.Command{
	Use:     "metric",
	Aliases: []string{"m", "metrics"},
	Short:   "Manage tracked metrics",
	Long: `Define the metrics that make up your board.

COMMANDS:

  add       Define a new metric
  edit      Change a metric's name, goal, unit, weight, or color
  list      List metrics in board order
  toggle    Activate or deactivate a metric
  delete    Remove a metric definition (logged values are kept)
  reorder   Set the board column order

Metrics are referenced by slug (derived from the name) or by ID prefix.`,
}

var metricAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Define a new metric",
	Long: `Define a new metric. The slug used in 'frame log' is derived from the name.

GOAL TYPES:

  at_least                value >= goal (default for number metrics)
  at_most                 value <= goal
  exact                   value == goal
  boolean_days_per_week   logged yes; goal is days per week (default for boolean metrics)

EXAMPLES:

  frame metric add Workout --type boolean --goal 5
  frame metric add "Deep Work" --unit h --goal 4
  frame metric add Screen Time --unit min --goal-type at_most --goal 60
  frame metric add Income --unit usd --goal 500 --weight 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidMetricType(metricType) {
			return fmt.Errorf("unknown metric type: %s (use number or boolean)", metricType)
		}
		if metricGoalType != "" && !models.IsValidGoalType(metricGoalType) {
			return fmt.Errorf("unknown goal type: %s", metricGoalType)
		}

		in := models.MetricInput{
			Name:      strings.Join(args, " "),
			Type:      models.MetricType(metricType),
			Unit:      models.Ptr(metricUnit),
			GoalType:  models.GoalType(metricGoalType),
			GoalValue: metricGoal,
			Color:     models.Ptr(metricColor),
		}
		if cmd.Flags().Changed("weight") {
			in.FrameScoreWeight = &metricWeight
		}

		m, err := store.UpsertMetric(in)
		if err != nil {
			return fmt.Errorf("failed to add metric: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Added %s\n", m.Name)
		fmt.Fprintf(out, "  %s %s %s  goal %s\n",
			faint.Sprint(shortID(m.ID)), m.Slug, m.Type, storage.DescribeGoal(m))
		return nil
	},
}

var metricEditCmd = &cobra.Command{
	Use:   "edit <metric>",
	Short: "Change a metric definition",
	Long: `Change a metric. Only the flags you pass are changed.

Renaming a metric changes its slug; values logged under the old slug stay there.

EXAMPLES:

  frame metric edit workout --goal 4
  frame metric edit income --weight 2 --color "#22aa55"
  frame metric edit income --unit ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		in := models.MetricInput{ID: m.ID, GoalValue: m.GoalValue}
		if flags.Changed("name") {
			in.Name = metricName
		}
		if flags.Changed("type") {
			if !models.IsValidMetricType(metricType) {
				return fmt.Errorf("unknown metric type: %s (use number or boolean)", metricType)
			}
			in.Type = models.MetricType(metricType)
		}
		if flags.Changed("unit") {
			in.Unit = models.Ptr(metricUnit)
		}
		if flags.Changed("goal-type") {
			if !models.IsValidGoalType(metricGoalType) {
				return fmt.Errorf("unknown goal type: %s", metricGoalType)
			}
			in.GoalType = models.GoalType(metricGoalType)
		}
		if flags.Changed("goal") {
			in.GoalValue = metricGoal
		}
		if flags.Changed("weight") {
			in.FrameScoreWeight = &metricWeight
		}
		if flags.Changed("color") {
			in.Color = models.Ptr(metricColor)
		}

		updated, err := store.UpsertMetric(in)
		if err != nil {
			return fmt.Errorf("failed to update metric: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Updated %s\n", updated.Name)
		fmt.Fprintf(out, "  %s %s %s  goal %s\n",
			faint.Sprint(shortID(updated.ID)), updated.Slug, updated.Type, storage.DescribeGoal(updated))
		return nil
	},
}

var metricListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List metrics",
	Long: `List metric definitions in board order.

OUTPUT FORMAT:

  Each line shows: ID  SLUG  TYPE  GOAL  WEIGHT

  Inactive metrics are only shown with --all.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := store.ActiveMetrics()
		if metricListAll {
			metrics = store.Metrics()
		}

		out := cmd.OutOrStdout()
		if len(metrics) == 0 {
			fmt.Fprintln(out, "No metrics defined.")
			return nil
		}

		for _, m := range metrics {
			weight := ""
			if m.FrameScoreWeight > 0 {
				weight = faint.Sprintf(" weight %s", formatNumber(m.FrameScoreWeight))
			}
			status := ""
			if !m.IsActive {
				status = yellow.Sprint(" (inactive)")
			}
			fmt.Fprintf(out, "%s %s %s %s%s%s\n",
				faint.Sprint(shortID(m.ID)),
				padRight(truncate(m.Slug, 20), 20),
				padRight(string(m.Type), 8),
				storage.DescribeGoal(m),
				weight,
				status)
		}
		return nil
	},
}

var metricToggleCmd = &cobra.Command{
	Use:   "toggle <metric>",
	Short: "Activate or deactivate a metric",
	Long: `Flip a metric between active and inactive.

Inactive metrics keep their history but leave the board and the compliance rollup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}
		active, err := store.ToggleMetricActive(m.ID)
		if err != nil {
			return fmt.Errorf("failed to toggle metric: %w", err)
		}

		if active {
			green.Fprintf(cmd.OutOrStdout(), "✓ %s is active\n", m.Name)
		} else {
			yellow.Fprintf(cmd.OutOrStdout(), "○ %s is inactive\n", m.Name)
		}
		return nil
	},
}

var metricDeleteCmd = &cobra.Command{
	Use:     "delete <metric>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a metric definition",
	Long: `Delete a metric definition by slug, ID, or ID prefix.

Values already logged under the metric's slug stay in the day entries.
If the prefix matches multiple metrics, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := store.ResolveMetric(args[0])
		if err != nil {
			return err
		}
		if _, err := store.DeleteMetric(m.ID); err != nil {
			return fmt.Errorf("failed to delete metric: %w", err)
		}

		yellow.Fprintf(cmd.OutOrStdout(), "✗ Deleted %s\n", m.Name)
		return nil
	},
}

var metricReorderCmd = &cobra.Command{
	Use:   "reorder <metric>...",
	Short: "Set the board column order",
	Long: `Put the listed metrics first, in the given order. Unlisted metrics keep their place.

EXAMPLE:

  frame metric reorder income workout`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]string, 0, len(args))
		for _, ref := range args {
			m, err := store.ResolveMetric(ref)
			if err != nil {
				return err
			}
			ids = append(ids, m.ID)
		}
		if err := store.ReorderMetrics(ids); err != nil {
			return fmt.Errorf("failed to reorder metrics: %w", err)
		}

		green.Fprintln(cmd.OutOrStdout(), "✓ Reordered metrics")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{metricAddCmd, metricEditCmd} {
		c.Flags().StringVarP(&metricType, "type", "t", "number", "metric type (number, boolean)")
		c.Flags().StringVarP(&metricUnit, "unit", "u", "", "unit label")
		c.Flags().StringVar(&metricGoalType, "goal-type", "", "at_least, at_most, exact, boolean_days_per_week")
		c.Flags().Float64VarP(&metricGoal, "goal", "g", 0, "goal value")
		c.Flags().Float64Var(&metricWeight, "weight", 0, "weight in the compliance rollup (0 excludes)")
		c.Flags().StringVar(&metricColor, "color", "", "display color")
	}
	metricEditCmd.Flags().StringVarP(&metricName, "name", "n", "", "new name")
	metricListCmd.Flags().BoolVarP(&metricListAll, "all", "a", false, "include inactive metrics")

	metricCmd.AddCommand(metricAddCmd, metricEditCmd, metricListCmd, metricToggleCmd, metricDeleteCmd, metricReorderCmd)
	rootCmd.AddCommand(metricCmd)
}
