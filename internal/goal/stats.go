// ABOUTME: Aggregation over day entries: sums/averages, streaks, goal history, compliance.
// ABOUTME: Every function takes an explicit today; entries dated after it are ignored.
package goal

import (
	"sort"

	"github.com/harperreed/frame/internal/models"
)

// Stats summarizes one metric over a date range.
type Stats struct {
	Slug         string  `json:"slug"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Sum          float64 `json:"sum"`
	Count        int     `json:"count"`
	Avg          float64 `json:"avg"`
	CheckedCount int     `json:"checked_count"`
	TotalDays    int     `json:"total_days"`
}

// DayGoal is one day's goal outcome.
type DayGoal struct {
	Date    string `json:"date"`
	GoalMet bool   `json:"goal_met"`
}

// Compliance is a weighted metric's goal completion over a range.
type Compliance struct {
	MetricID       string  `json:"metric_id"`
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Weight         float64 `json:"weight"`
	TrackedDays    int     `json:"tracked_days"`
	CompletedDays  int     `json:"completed_days"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// inWindow reports whether date lies in [start, end] and not after today.
// Dates are canonical YYYY-MM-DD, so string order is calendar order.
func inWindow(date, start, end, today string) bool {
	return date >= start && date <= end && date <= today
}

// MetricStats sums numeric values and counts checked booleans for slug.
// TotalDays counts calendar days in the range up to today, logged or not.
func MetricStats(days []models.DayEntry, slug, start, end, today string) Stats {
	s := Stats{Slug: slug, Start: start, End: end}

	for _, d := range days {
		if !inWindow(d.Date, start, end, today) {
			continue
		}
		v := d.Get(slug)
		if n, ok := v.Float(); ok {
			s.Sum += n
			s.Count++
		}
		if b, ok := v.Boolean(); ok && b {
			s.CheckedCount++
		}
	}

	last := end
	if today < last {
		last = today
	}
	if n, err := models.DaysBetween(start, last); err == nil && n >= 0 {
		s.TotalDays = n + 1
	}

	if s.Count > 0 {
		s.Avg = s.Sum / float64(s.Count)
	}
	return s
}

// Streak counts consecutive qualifying days ending today, or ending yesterday
// when today has nothing qualifying yet.
func Streak(days []models.DayEntry, slug, today string) int {
	past := make([]models.DayEntry, 0, len(days))
	for _, d := range days {
		if d.Date <= today {
			past = append(past, d)
		}
	}
	sort.Slice(past, func(i, j int) bool { return past[i].Date > past[j].Date })

	streak := 0
	expected := today
	for _, d := range past {
		gap, err := models.DaysBetween(d.Date, expected)
		if err != nil {
			break
		}
		qualifies := d.Get(slug).Present()

		switch {
		case gap == 0 && qualifies:
		case gap == 1 && streak == 0 && qualifies:
		case gap == 0 && streak == 0 && d.Date == today:
			// Today is still in progress.
			continue
		default:
			return streak
		}

		streak++
		prev, err := models.AddDays(d.Date, -1)
		if err != nil {
			return streak
		}
		expected = prev
	}
	return streak
}

// GoalMetHistory returns the goal outcome of every existing entry in range.
func GoalMetHistory(days []models.DayEntry, metric models.MetricDefinition, start, end, today string) []DayGoal {
	var out []DayGoal
	for _, d := range days {
		if !inWindow(d.Date, start, end, today) {
			continue
		}
		out = append(out, DayGoal{Date: d.Date, GoalMet: IsGoalMet(metric, d.Get(metric.Slug))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeightedCompliance computes tracked/completed days for every active metric with a
// positive frame score weight. The rate is 0 when nothing was tracked.
func WeightedCompliance(metrics []models.MetricDefinition, days []models.DayEntry, start, end, today string) []Compliance {
	var out []Compliance
	for _, m := range metrics {
		if !m.Weighted() {
			continue
		}
		c := Compliance{MetricID: m.ID, Slug: m.Slug, Name: m.Name, Weight: m.FrameScoreWeight}
		for _, d := range days {
			if !inWindow(d.Date, start, end, today) {
				continue
			}
			v := d.Get(m.Slug)
			if v.IsNull() {
				continue
			}
			c.TrackedDays++
			if IsGoalMet(m, v) {
				c.CompletedDays++
			}
		}
		if c.TrackedDays > 0 {
			c.ComplianceRate = float64(c.CompletedDays) / float64(c.TrackedDays)
		}
		out = append(out, c)
	}
	return out
}
