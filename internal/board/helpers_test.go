// ABOUTME: Shared fixtures for board tests.
// ABOUTME: Stores run on a fixed clock so "today" is deterministic.
package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/frame/internal/models"
)

// clockAt returns a clock fixed at noon UTC on date.
func clockAt(t *testing.T, date string) func() time.Time {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	at := d.Add(12 * time.Hour)
	return func() time.Time { return at }
}

func newTestStore(t *testing.T, today string, opts ...Option) *Store {
	t.Helper()
	return New(append([]Option{WithClock(clockAt(t, today))}, opts...)...)
}

func mustMetric(t *testing.T, s *Store, in models.MetricInput) models.MetricDefinition {
	t.Helper()
	m, err := s.UpsertMetric(in)
	require.NoError(t, err)
	return m
}

func workoutMetric() models.MetricInput {
	return models.MetricInput{
		Name:      "Workout",
		Type:      models.MetricBoolean,
		GoalType:  models.GoalBooleanDaysPerWeek,
		GoalValue: 5,
	}
}

func incomeMetric() models.MetricInput {
	w := 1.0
	return models.MetricInput{
		Name:             "Income",
		Type:             models.MetricNumber,
		Unit:             models.Ptr("usd"),
		GoalType:         models.GoalAtLeast,
		GoalValue:        500,
		FrameScoreWeight: &w,
	}
}

// countCalls subscribes a counter to s.
func countCalls(s *Store) *int {
	n := 0
	s.Subscribe(func() { n++ })
	return &n
}
