// ABOUTME: Tests for stats, streaks, goal-met history, and weighted compliance.
// ABOUTME: Fixtures use an explicit today so results never depend on the wall clock.
package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/frame/internal/models"
)

func day(date string, values map[string]models.Value) models.DayEntry {
	d := models.NewDayEntry(date)
	for k, v := range values {
		d.Values[k] = v
	}
	return d
}

func workoutDays(vals ...models.Value) []models.DayEntry {
	days := make([]models.DayEntry, 0, len(vals))
	for i, v := range vals {
		date, _ := models.AddDays("2024-06-01", i)
		days = append(days, day(date, map[string]models.Value{"workout": v}))
	}
	return days
}

func TestMetricStats(t *testing.T) {
	days := []models.DayEntry{
		day("2024-06-01", map[string]models.Value{"income": models.Number(400), "workout": models.Bool(true)}),
		day("2024-06-02", map[string]models.Value{"income": models.Number(600), "workout": models.Bool(false)}),
		day("2024-06-03", map[string]models.Value{"workout": models.Bool(true)}),
		day("2024-06-09", map[string]models.Value{"income": models.Number(10000)}),
	}

	s := MetricStats(days, "income", "2024-06-01", "2024-06-30", "2024-06-05")
	assert.Equal(t, 1000.0, s.Sum)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 500.0, s.Avg)
	assert.Equal(t, 5, s.TotalDays, "total days stops at today")

	w := MetricStats(days, "workout", "2024-06-01", "2024-06-30", "2024-06-05")
	assert.Equal(t, 2, w.CheckedCount)
	assert.Equal(t, 0, w.Count)
	assert.Equal(t, 0.0, w.Avg)

	past := MetricStats(days, "income", "2024-06-01", "2024-06-03", "2024-07-01")
	assert.Equal(t, 3, past.TotalDays)

	future := MetricStats(days, "income", "2024-07-01", "2024-07-31", "2024-06-05")
	assert.Equal(t, 0, future.TotalDays)
	assert.Equal(t, 0, future.Count)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		days  []models.DayEntry
		today string
		want  int
	}{
		{
			name:  "five straight days",
			days:  workoutDays(models.Bool(true), models.Bool(true), models.Bool(true), models.Bool(true), models.Bool(true)),
			today: "2024-06-05",
			want:  5,
		},
		{
			name:  "broken on the third",
			days:  workoutDays(models.Bool(true), models.Bool(true), models.Bool(false), models.Bool(true), models.Bool(true)),
			today: "2024-06-05",
			want:  2,
		},
		{
			name:  "today not logged yet",
			days:  workoutDays(models.Bool(true), models.Bool(true), models.Bool(true)),
			today: "2024-06-04",
			want:  3,
		},
		{
			name:  "today logged false is in progress",
			days:  workoutDays(models.Bool(true), models.Bool(true), models.Bool(false)),
			today: "2024-06-03",
			want:  2,
		},
		{
			name:  "gap of two days",
			days:  workoutDays(models.Bool(true), models.Bool(true)),
			today: "2024-06-04",
			want:  0,
		},
		{
			name:  "numbers above zero qualify",
			days:  workoutDays(models.Number(2), models.Number(0.5), models.Number(0)),
			today: "2024-06-02",
			want:  2,
		},
		{
			name:  "null breaks the run",
			days:  workoutDays(models.Bool(true), models.Null, models.Bool(true)),
			today: "2024-06-03",
			want:  1,
		},
		{
			name:  "future entries ignored",
			days:  workoutDays(models.Bool(true), models.Bool(true), models.Bool(true), models.Bool(true)),
			today: "2024-06-02",
			want:  2,
		},
		{
			name:  "no entries",
			days:  nil,
			today: "2024-06-02",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.days, "workout", tt.today))
		})
	}
}

func TestStreakUnorderedInput(t *testing.T) {
	days := workoutDays(models.Bool(true), models.Bool(true), models.Bool(true))
	days[0], days[2] = days[2], days[0]
	assert.Equal(t, 3, Streak(days, "workout", "2024-06-03"))
}

func TestGoalMetHistory(t *testing.T) {
	income := metric(models.MetricNumber, models.GoalAtLeast, 500)
	income.Slug = "income"

	days := []models.DayEntry{
		day("2024-06-03", map[string]models.Value{"income": models.Number(700)}),
		day("2024-06-01", map[string]models.Value{"income": models.Number(450)}),
		day("2024-06-02", nil),
		day("2024-06-10", map[string]models.Value{"income": models.Number(900)}),
	}

	got := GoalMetHistory(days, income, "2024-06-01", "2024-06-30", "2024-06-05")
	require.Len(t, got, 3)
	assert.Equal(t, []DayGoal{
		{Date: "2024-06-01", GoalMet: false},
		{Date: "2024-06-02", GoalMet: false},
		{Date: "2024-06-03", GoalMet: true},
	}, got)
}

func TestWeightedCompliance(t *testing.T) {
	income := models.MetricDefinition{
		ID: "m1", Name: "Income", Slug: "income", Type: models.MetricNumber,
		GoalType: models.GoalAtLeast, GoalValue: 500, IsActive: true, FrameScoreWeight: 1,
	}
	unweighted := models.MetricDefinition{
		ID: "m2", Name: "Mood", Slug: "mood", Type: models.MetricNumber,
		GoalType: models.GoalAtLeast, GoalValue: 5, IsActive: true,
	}
	inactive := models.MetricDefinition{
		ID: "m3", Name: "Workout", Slug: "workout", Type: models.MetricBoolean,
		GoalType: models.GoalBooleanDaysPerWeek, GoalValue: 5, FrameScoreWeight: 2,
	}

	amounts := []float64{600, 700, 400, 800, 300, 550}
	var days []models.DayEntry
	for i, a := range amounts {
		date, _ := models.AddDays("2024-06-01", i)
		days = append(days, day(date, map[string]models.Value{"income": models.Number(a), "mood": models.Number(7)}))
	}
	days = append(days, day("2024-06-07", map[string]models.Value{"income": models.Null}))
	days = append(days, day("2024-06-20", map[string]models.Value{"income": models.Number(1000)}))

	got := WeightedCompliance([]models.MetricDefinition{income, unweighted, inactive}, days, "2024-06-01", "2024-06-30", "2024-06-10")
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "income", c.Slug)
	assert.Equal(t, 6, c.TrackedDays)
	assert.Equal(t, 4, c.CompletedDays)
	assert.InDelta(t, 0.667, c.ComplianceRate, 0.001)
}

func TestWeightedComplianceNothingTracked(t *testing.T) {
	m := models.MetricDefinition{
		ID: "m1", Slug: "income", Type: models.MetricNumber,
		GoalType: models.GoalAtLeast, GoalValue: 500, IsActive: true, FrameScoreWeight: 1,
	}
	got := WeightedCompliance([]models.MetricDefinition{m}, nil, "2024-06-01", "2024-06-30", "2024-06-10")
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].TrackedDays)
	assert.Equal(t, 0.0, got[0].ComplianceRate)
}
