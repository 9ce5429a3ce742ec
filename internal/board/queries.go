// ABOUTME: Aggregation queries bound to the Store's clock and current entries.
// ABOUTME: Thin wrappers over the goal package with today taken from the store clock.
package board

import (
	"fmt"

	"github.com/harperreed/frame/internal/goal"
	"github.com/harperreed/frame/internal/models"
)

func checkRange(start, end string) error {
	if err := models.ValidateDate(start); err != nil {
		return err
	}
	return models.ValidateDate(end)
}

// MetricStats summarizes slug over [start, end], ignoring dates after today.
func (s *Store) MetricStats(slug, start, end string) (goal.Stats, error) {
	if err := checkRange(start, end); err != nil {
		return goal.Stats{}, err
	}
	return goal.MetricStats(s.Days(), slug, start, end, s.Today()), nil
}

// Streak counts consecutive qualifying days for slug ending today or yesterday.
func (s *Store) Streak(slug string) int {
	return goal.Streak(s.Days(), slug, s.Today())
}

// GoalMetHistory lists per-day goal outcomes for slug over [start, end].
func (s *Store) GoalMetHistory(slug, start, end string) ([]goal.DayGoal, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	m, ok := s.MetricBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: metric %q", models.ErrNotFound, slug)
	}
	return goal.GoalMetHistory(s.Days(), m, start, end, s.Today()), nil
}

// WeightedMetricsCompliance reports goal completion for every weighted active metric.
func (s *Store) WeightedMetricsCompliance(start, end string) ([]goal.Compliance, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	snap := s.Snapshot()
	return goal.WeightedCompliance(snap.Metrics, snap.Days, start, end, s.Today()), nil
}

// IsGoalMet evaluates v against the metric with the given slug.
func (s *Store) IsGoalMet(slug string, v models.Value) bool {
	m, ok := s.MetricBySlug(slug)
	if !ok {
		return false
	}
	return goal.IsGoalMet(m, v)
}
