// ABOUTME: MetricDefinition model, metric/goal type enums, and slug generation.
// ABOUTME: Defines the upsert payload and validation shared by every store backend.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MetricType is the kind of value a metric records.
type MetricType string

const (
	MetricNumber  MetricType = "number"
	MetricBoolean MetricType = "boolean"
)

// GoalType is the comparison rule used to decide whether a logged value meets the target.
type GoalType string

const (
	GoalAtLeast            GoalType = "at_least"
	GoalAtMost             GoalType = "at_most"
	GoalExact              GoalType = "exact"
	GoalBooleanDaysPerWeek GoalType = "boolean_days_per_week"
)

// AllMetricTypes returns all valid metric types.
var AllMetricTypes = []MetricType{MetricNumber, MetricBoolean}

// AllGoalTypes returns all valid goal types.
var AllGoalTypes = []GoalType{GoalAtLeast, GoalAtMost, GoalExact, GoalBooleanDaysPerWeek}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// IsValidGoalType checks if a string is a valid goal type.
func IsValidGoalType(s string) bool {
	for _, gt := range AllGoalTypes {
		if string(gt) == s {
			return true
		}
	}
	return false
}

// MetricDefinition is a user-defined trackable quantity or habit with a goal.
type MetricDefinition struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Slug             string     `json:"slug" yaml:"slug"`
	Type             MetricType `json:"type" yaml:"type"`
	Unit             string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	GoalType         GoalType   `json:"goal_type" yaml:"goal_type"`
	GoalValue        float64    `json:"goal_value" yaml:"goal_value"`
	IsActive         bool       `json:"is_active" yaml:"is_active"`
	SortOrder        int        `json:"sort_order" yaml:"sort_order"`
	Color            string     `json:"color,omitempty" yaml:"color,omitempty"`
	FrameScoreWeight float64    `json:"frame_score_weight,omitempty" yaml:"frame_score_weight,omitempty"`
	CreatedAt        time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" yaml:"updated_at"`
}

// MetricInput is the payload for creating or updating a metric definition.
// On update, nil pointers keep the existing value; a pointer to "" clears Unit or Color.
type MetricInput struct {
	ID               string
	Name             string
	Type             MetricType
	Unit             *string
	GoalType         GoalType
	GoalValue        float64
	IsActive         *bool
	SortOrder        *int
	Color            *string
	FrameScoreWeight *float64
}

// Ptr returns a pointer to v, for the optional MetricInput fields.
func Ptr[T any](v T) *T { return &v }

// Validate checks the definition's enums and numeric ranges.
func (m *MetricDefinition) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMetric)
	}
	if m.Slug == "" {
		return fmt.Errorf("%w: name %q has no usable characters", ErrInvalidMetric, m.Name)
	}
	if !IsValidMetricType(string(m.Type)) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMetric, m.Type)
	}
	if !IsValidGoalType(string(m.GoalType)) {
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidMetric, m.GoalType)
	}
	if math.IsNaN(m.GoalValue) || math.IsInf(m.GoalValue, 0) {
		return fmt.Errorf("%w: goal value must be finite", ErrInvalidMetric)
	}
	if m.GoalType == GoalBooleanDaysPerWeek {
		if m.GoalValue < 0 || m.GoalValue > 7 || m.GoalValue != math.Trunc(m.GoalValue) {
			return fmt.Errorf("%w: days per week must be a whole number from 0 to 7", ErrInvalidMetric)
		}
	}
	if math.IsNaN(m.FrameScoreWeight) || math.IsInf(m.FrameScoreWeight, 0) || m.FrameScoreWeight < 0 {
		return fmt.Errorf("%w: frame score weight must be a non-negative number", ErrInvalidMetric)
	}
	return nil
}

// Weighted reports whether the metric takes part in the compliance rollup.
func (m *MetricDefinition) Weighted() bool {
	return m.IsActive && m.FrameScoreWeight > 0
}

// Slugify derives the key-safe form of a metric name: lowercase [a-z0-9_],
// runs of anything else collapsed to one underscore, no leading or trailing underscore.
func Slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
