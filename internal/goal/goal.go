// ABOUTME: Goal evaluation: decides whether one logged value satisfies a metric's goal.
// ABOUTME: Total over every (metric type, goal type, value kind) combination.
package goal

import (
	"math"

	"github.com/harperreed/frame/internal/models"
)

// ExactTolerance is the slack allowed by the exact goal type for floating point input.
const ExactTolerance = 0.001

// IsGoalMet reports whether value satisfies metric's goal. Null never does.
// boolean_days_per_week is judged per day (true, or a number above zero);
// the weekly threshold itself is not evaluated here.
func IsGoalMet(metric models.MetricDefinition, value models.Value) bool {
	if value.IsNull() {
		return false
	}

	if metric.Type == models.MetricBoolean {
		b, ok := value.Boolean()
		return ok && b
	}

	n, isNum := value.Float()
	if !isNum {
		if metric.GoalType == models.GoalBooleanDaysPerWeek {
			b, _ := value.Boolean()
			return b
		}
		return false
	}

	switch metric.GoalType {
	case models.GoalAtLeast:
		return n >= metric.GoalValue
	case models.GoalAtMost:
		return n <= metric.GoalValue
	case models.GoalExact:
		return math.Abs(n-metric.GoalValue) < ExactTolerance
	case models.GoalBooleanDaysPerWeek:
		return n > 0
	}
	return false
}
