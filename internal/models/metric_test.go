// ABOUTME: Tests for MetricDefinition validation, enums, and Slugify.
// ABOUTME: Covers slug determinism and the [a-z0-9_] character set.
package models

import (
	"errors"
	"math"
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Workout", "workout"},
		{"Daily Income", "daily_income"},
		{"  Deep   Work (hrs) ", "deep_work_hrs"},
		{"__already_snake__", "already_snake"},
		{"Cold-Plunge!!", "cold_plunge"},
		{"10k Steps", "10k_steps"},
		{"Café Visits", "caf_visits"},
		{"???", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.name); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_]*$`)
	names := []string{
		"Workout", "MEDITATE 20 min", "a--b--c", "_x_", "Ünïcödé Nämé", "tabs\tand\nnewlines",
		"emoji 🏋️ lift", "1", "UPPER_lower_123",
	}

	for _, n := range names {
		got := Slugify(n)
		if got != Slugify(n) {
			t.Errorf("Slugify(%q) is not deterministic", n)
		}
		if !valid.MatchString(got) {
			t.Errorf("Slugify(%q) = %q contains characters outside [a-z0-9_]", n, got)
		}
		if len(got) > 0 && (got[0] == '_' || got[len(got)-1] == '_') {
			t.Errorf("Slugify(%q) = %q has a leading or trailing underscore", n, got)
		}
	}
}

func TestIsValidTypes(t *testing.T) {
	if !IsValidMetricType("number") || !IsValidMetricType("boolean") {
		t.Error("expected number and boolean to be valid metric types")
	}
	if IsValidMetricType("string") {
		t.Error("expected string to be an invalid metric type")
	}
	for _, gt := range []string{"at_least", "at_most", "exact", "boolean_days_per_week"} {
		if !IsValidGoalType(gt) {
			t.Errorf("expected %s to be a valid goal type", gt)
		}
	}
	if IsValidGoalType("weekly") {
		t.Error("expected weekly to be an invalid goal type")
	}
}

func TestMetricDefinitionValidate(t *testing.T) {
	base := func() MetricDefinition {
		return MetricDefinition{
			Name:      "Income",
			Slug:      "income",
			Type:      MetricNumber,
			GoalType:  GoalAtLeast,
			GoalValue: 500,
		}
	}

	tests := []struct {
		name    string
		mutate  func(m *MetricDefinition)
		wantErr bool
	}{
		{"valid", func(m *MetricDefinition) {}, false},
		{"empty name", func(m *MetricDefinition) { m.Name = " " }, true},
		{"empty slug", func(m *MetricDefinition) { m.Slug = "" }, true},
		{"bad type", func(m *MetricDefinition) { m.Type = "text" }, true},
		{"bad goal type", func(m *MetricDefinition) { m.GoalType = "weekly" }, true},
		{"nan goal", func(m *MetricDefinition) { m.GoalValue = math.NaN() }, true},
		{"days per week in range", func(m *MetricDefinition) {
			m.GoalType = GoalBooleanDaysPerWeek
			m.GoalValue = 5
		}, false},
		{"days per week above 7", func(m *MetricDefinition) {
			m.GoalType = GoalBooleanDaysPerWeek
			m.GoalValue = 8
		}, true},
		{"days per week fractional", func(m *MetricDefinition) {
			m.GoalType = GoalBooleanDaysPerWeek
			m.GoalValue = 3.5
		}, true},
		{"negative weight", func(m *MetricDefinition) { m.FrameScoreWeight = -1 }, true},
		{"positive weight", func(m *MetricDefinition) { m.FrameScoreWeight = 2.5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMetric) {
					t.Errorf("Validate() = %v, want ErrInvalidMetric", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestWeighted(t *testing.T) {
	m := MetricDefinition{IsActive: true, FrameScoreWeight: 1}
	if !m.Weighted() {
		t.Error("expected active metric with weight to be weighted")
	}
	m.IsActive = false
	if m.Weighted() {
		t.Error("expected inactive metric to be excluded from compliance")
	}
	m.IsActive = true
	m.FrameScoreWeight = 0
	if m.Weighted() {
		t.Error("expected zero weight to be excluded from compliance")
	}
}
