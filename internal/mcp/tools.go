// ABOUTME: MCP tool implementations for the frame board.
// ABOUTME: define_metric and log_day go through the event bridge; the rest read or toggle the store.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/frame/internal/board"
	"github.com/harperreed/frame/internal/goal"
	"github.com/harperreed/frame/internal/models"
)

// defaultComplianceDays is the window get_compliance and frame://compliance use.
const defaultComplianceDays = 30

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "define_metric",
		Description: "Define a new tracked metric with a goal (number or boolean)",
	}, s.handleDefineMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_day",
		Description: "Log values for one day, keyed by metric slug",
	}, s.handleLogDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List metric definitions in board order",
	}, s.handleListMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_metric",
		Description: "Activate or deactivate a metric by ID, ID prefix, or slug",
	}, s.handleToggleMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Sum, count, and average of a metric over a date range",
	}, s.handleGetStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streak",
		Description: "Consecutive days with a yes or a positive number for a metric, ending today or yesterday",
	}, s.handleGetStreak)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_goal_history",
		Description: "Per-day goal outcomes for a metric over a date range",
	}, s.handleGetGoalHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_compliance",
		Description: "Goal completion rate for every weighted active metric",
	}, s.handleGetCompliance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_board",
		Description: "Month grid: dates, active metrics, and logged values",
	}, s.handleGetBoard)
}

// Tool input/output types

type defineMetricInput struct {
	Name      string  `json:"name" jsonschema:"Display name of the metric; the slug is derived from it"`
	Type      string  `json:"type" jsonschema:"number or boolean"`
	Unit      string  `json:"unit,omitempty" jsonschema:"Unit label for number metrics"`
	GoalType  string  `json:"goal_type,omitempty" jsonschema:"at_least, at_most, exact, or boolean_days_per_week"`
	GoalValue float64 `json:"goal_value" jsonschema:"Goal target"`
}

type metricView struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Type             string  `json:"type"`
	Unit             string  `json:"unit,omitempty"`
	GoalType         string  `json:"goal_type"`
	GoalValue        float64 `json:"goal_value"`
	IsActive         bool    `json:"is_active"`
	SortOrder        int     `json:"sort_order"`
	Color            string  `json:"color,omitempty"`
	FrameScoreWeight float64 `json:"frame_score_weight,omitempty"`
	UpdatedAt        string  `json:"updated_at"`
}

type metricOutput struct {
	Metric  metricView `json:"metric"`
	Message string     `json:"message"`
}

type logDayInput struct {
	Date    string         `json:"date,omitempty" jsonschema:"YYYY-MM-DD or today; defaults to today"`
	Entries map[string]any `json:"entries" jsonschema:"Values keyed by metric slug: number, true/false, or null to clear"`
}

type logDayOutput struct {
	Date    string          `json:"date"`
	Values  map[string]any  `json:"values"`
	GoalMet map[string]bool `json:"goal_met"`
	Message string          `json:"message"`
}

type listMetricsInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty" jsonschema:"Also list deactivated metrics"`
}

type listMetricsOutput struct {
	Metrics []metricView `json:"metrics"`
	Count   int          `json:"count"`
}

type toggleMetricInput struct {
	Metric string `json:"metric" jsonschema:"Metric ID, ID prefix, or slug"`
}

type toggleMetricOutput struct {
	Slug     string `json:"slug"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}

type rangeInput struct {
	Slug  string `json:"slug" jsonschema:"Metric slug"`
	Start string `json:"start,omitempty" jsonschema:"First date (YYYY-MM-DD); defaults to the first of this month"`
	End   string `json:"end,omitempty" jsonschema:"Last date (YYYY-MM-DD); defaults to today"`
}

type streakInput struct {
	Slug string `json:"slug" jsonschema:"Metric slug"`
}

type streakOutput struct {
	Slug   string `json:"slug"`
	Streak int    `json:"streak"`
}

type goalHistoryOutput struct {
	Slug    string         `json:"slug"`
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Days    []goal.DayGoal `json:"days"`
	MetDays int            `json:"met_days"`
}

type complianceInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window size in days ending today (default 30)"`
}

type complianceOutput struct {
	Start   string            `json:"start"`
	End     string            `json:"end"`
	Metrics []goal.Compliance `json:"metrics"`
}

type boardInput struct {
	Month string `json:"month,omitempty" jsonschema:"YYYY-MM; defaults to the selected or current month"`
}

type boardOutput struct {
	Month   string                    `json:"month"`
	Dates   []string                  `json:"dates"`
	Metrics []metricView              `json:"metrics"`
	Days    map[string]map[string]any `json:"days"`
}

func viewMetric(m models.MetricDefinition) metricView {
	return metricView{
		ID:               m.ID,
		Name:             m.Name,
		Slug:             m.Slug,
		Type:             string(m.Type),
		Unit:             m.Unit,
		GoalType:         string(m.GoalType),
		GoalValue:        m.GoalValue,
		IsActive:         m.IsActive,
		SortOrder:        m.SortOrder,
		Color:            m.Color,
		FrameScoreWeight: m.FrameScoreWeight,
		UpdatedAt:        m.UpdatedAt.Format(time.RFC3339),
	}
}

func viewMetrics(metrics []models.MetricDefinition) []metricView {
	out := make([]metricView, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, viewMetric(m))
	}
	return out
}

func viewValues(values map[string]models.Value) map[string]any {
	out := make(map[string]any, len(values))
	for slug, v := range values {
		out[slug] = v.Interface()
	}
	return out
}

// resolveRange fills in the default window: first of the current month through today.
func (s *Server) resolveRange(start, end string) (string, string) {
	today := s.store.Today()
	if end == "" {
		end = today
	}
	if start == "" {
		start = models.MonthOf(today) + "-01"
	}
	return start, end
}

// Tool handlers

func (s *Server) handleDefineMetric(ctx context.Context, req *mcp.CallToolRequest, input defineMetricInput) (*mcp.CallToolResult, metricOutput, error) {
	if !models.IsValidMetricType(input.Type) {
		return nil, metricOutput{}, fmt.Errorf("unknown metric type: %q (use number or boolean)", input.Type)
	}
	if input.GoalType != "" && !models.IsValidGoalType(input.GoalType) {
		return nil, metricOutput{}, fmt.Errorf("unknown goal type: %q", input.GoalType)
	}

	evt := board.DefineMetricEvent(board.DefineMetricPayload{
		Name:      input.Name,
		Type:      models.MetricType(input.Type),
		Unit:      input.Unit,
		GoalType:  models.GoalType(input.GoalType),
		GoalValue: input.GoalValue,
	})
	if err := s.bridge.HandleAssistantEvent(evt); err != nil {
		return nil, metricOutput{}, fmt.Errorf("failed to define metric: %w", err)
	}

	m, ok := s.store.MetricBySlug(models.Slugify(input.Name))
	if !ok {
		return nil, metricOutput{}, fmt.Errorf("metric %q not found after define", input.Name)
	}

	return nil, metricOutput{
		Metric:  viewMetric(m),
		Message: fmt.Sprintf("Defined %s (%s, slug %s)", m.Name, m.Type, m.Slug),
	}, nil
}

func (s *Server) handleLogDay(ctx context.Context, req *mcp.CallToolRequest, input logDayInput) (*mcp.CallToolResult, logDayOutput, error) {
	if len(input.Entries) == 0 {
		return nil, logDayOutput{}, fmt.Errorf("entries must name at least one metric")
	}

	logged := strings.TrimSpace(input.Date)
	if logged == "" || strings.EqualFold(logged, "today") {
		logged = s.store.Today()
	}
	if err := s.bridge.HandleAssistantEvent(board.LogDayEvent(logged, input.Entries)); err != nil {
		return nil, logDayOutput{}, fmt.Errorf("failed to log day: %w", err)
	}

	entry, _ := s.store.DayEntry(logged)
	goalMet := make(map[string]bool)
	for slug, v := range entry.Values {
		if _, ok := input.Entries[slug]; ok {
			goalMet[slug] = s.store.IsGoalMet(slug, v)
		}
	}

	return nil, logDayOutput{
		Date:    logged,
		Values:  viewValues(entry.Values),
		GoalMet: goalMet,
		Message: fmt.Sprintf("Logged %d value(s) for %s", len(input.Entries), logged),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, listMetricsOutput, error) {
	metrics := s.store.ActiveMetrics()
	if input.IncludeInactive {
		metrics = s.store.Metrics()
	}
	views := viewMetrics(metrics)
	return nil, listMetricsOutput{Metrics: views, Count: len(views)}, nil
}

func (s *Server) handleToggleMetric(ctx context.Context, req *mcp.CallToolRequest, input toggleMetricInput) (*mcp.CallToolResult, toggleMetricOutput, error) {
	m, err := s.store.ResolveMetric(input.Metric)
	if err != nil {
		return nil, toggleMetricOutput{}, err
	}
	active, err := s.store.ToggleMetricActive(m.ID)
	if err != nil {
		return nil, toggleMetricOutput{}, fmt.Errorf("failed to toggle metric: %w", err)
	}

	state := "inactive"
	if active {
		state = "active"
	}
	return nil, toggleMetricOutput{
		Slug:     m.Slug,
		IsActive: active,
		Message:  fmt.Sprintf("%s is now %s", m.Name, state),
	}, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input rangeInput) (*mcp.CallToolResult, goal.Stats, error) {
	start, end := s.resolveRange(input.Start, input.End)
	stats, err := s.store.MetricStats(input.Slug, start, end)
	if err != nil {
		return nil, goal.Stats{}, err
	}
	return nil, stats, nil
}

func (s *Server) handleGetStreak(ctx context.Context, req *mcp.CallToolRequest, input streakInput) (*mcp.CallToolResult, streakOutput, error) {
	if _, ok := s.store.MetricBySlug(input.Slug); !ok {
		return nil, streakOutput{}, fmt.Errorf("%w: metric %q", models.ErrNotFound, input.Slug)
	}
	return nil, streakOutput{Slug: strings.ToLower(input.Slug), Streak: s.store.Streak(input.Slug)}, nil
}

func (s *Server) handleGetGoalHistory(ctx context.Context, req *mcp.CallToolRequest, input rangeInput) (*mcp.CallToolResult, goalHistoryOutput, error) {
	start, end := s.resolveRange(input.Start, input.End)
	days, err := s.store.GoalMetHistory(input.Slug, start, end)
	if err != nil {
		return nil, goalHistoryOutput{}, err
	}

	out := goalHistoryOutput{Slug: input.Slug, Start: start, End: end, Days: days}
	if out.Days == nil {
		out.Days = []goal.DayGoal{}
	}
	for _, d := range days {
		if d.GoalMet {
			out.MetDays++
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetCompliance(ctx context.Context, req *mcp.CallToolRequest, input complianceInput) (*mcp.CallToolResult, complianceOutput, error) {
	out, err := s.compliance(input.Days)
	if err != nil {
		return nil, complianceOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) compliance(days int) (complianceOutput, error) {
	if days <= 0 {
		days = defaultComplianceDays
	}
	end := s.store.Today()
	start, err := models.AddDays(end, -(days - 1))
	if err != nil {
		return complianceOutput{}, err
	}

	rows, err := s.store.WeightedMetricsCompliance(start, end)
	if err != nil {
		return complianceOutput{}, err
	}
	if rows == nil {
		rows = []goal.Compliance{}
	}
	return complianceOutput{Start: start, End: end, Metrics: rows}, nil
}

func (s *Server) handleGetBoard(ctx context.Context, req *mcp.CallToolRequest, input boardInput) (*mcp.CallToolResult, boardOutput, error) {
	out, err := s.boardView(input.Month)
	if err != nil {
		return nil, boardOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) boardView(month string) (boardOutput, error) {
	data, err := s.store.BoardData(month)
	if err != nil {
		return boardOutput{}, err
	}

	out := boardOutput{
		Month:   data.Month,
		Dates:   data.Dates,
		Metrics: viewMetrics(data.Metrics),
		Days:    make(map[string]map[string]any, len(data.Days)),
	}
	for date, entry := range data.Days {
		out.Days[date] = viewValues(entry.Values)
	}
	return out, nil
}
