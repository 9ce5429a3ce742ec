// ABOUTME: Export and import of a whole board.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; JSON and YAML import.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/frame/internal/goal"
	"github.com/harperreed/frame/internal/models"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for a board.
type ExportData struct {
	Version       string                    `json:"version" yaml:"version"`
	ExportedAt    time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool          string                    `json:"tool" yaml:"tool"`
	SelectedMonth string                    `json:"selected_month,omitempty" yaml:"selected_month,omitempty"`
	Metrics       []models.MetricDefinition `json:"metrics" yaml:"metrics"`
	Days          []models.DayEntry         `json:"days" yaml:"days"`
}

// NewExport wraps b in the export envelope.
func NewExport(b models.Board, now time.Time) *ExportData {
	data := &ExportData{
		Version:       ExportVersion,
		ExportedAt:    now,
		Tool:          "frame",
		SelectedMonth: b.SelectedMonth,
		Metrics:       b.Metrics,
		Days:          b.Days,
	}
	if data.Metrics == nil {
		data.Metrics = []models.MetricDefinition{}
	}
	if data.Days == nil {
		data.Days = []models.DayEntry{}
	}
	return data
}

// Board returns the export as a board ready for Store.Restore.
func (e *ExportData) Board() models.Board {
	b := models.Board{
		Metrics:       e.Metrics,
		Days:          e.Days,
		SelectedMonth: e.SelectedMonth,
	}
	for i := range b.Days {
		if b.Days[i].Values == nil {
			b.Days[i].Values = map[string]models.Value{}
		}
	}
	models.SortMetrics(b.Metrics)
	models.SortDays(b.Days)
	return b
}

// ExportJSON exports all data as JSON.
func ExportJSON(b models.Board, now time.Time) ([]byte, error) {
	return json.MarshalIndent(NewExport(b, now), "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(b models.Board, now time.Time) ([]byte, error) {
	return yaml.Marshal(NewExport(b, now))
}

// ImportJSON parses a JSON export.
func ImportJSON(data []byte) (*ExportData, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &exportData, nil
}

// ImportYAML parses a YAML export.
func ImportYAML(data []byte) (*ExportData, error) {
	var exportData ExportData
	if err := yaml.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return &exportData, nil
}

// ImportAuto parses JSON when the data looks like a JSON object and YAML otherwise.
func ImportAuto(data []byte) (*ExportData, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return ImportJSON(data)
	}
	return ImportYAML(data)
}

// ExportMarkdown renders one table per month, newest first, with a check mark on
// values that meet their goal. Entries before since are skipped when since is set.
//
//nolint:gocognit // This function has clear, linear logic despite complexity metrics.
func ExportMarkdown(b models.Board, now time.Time, since string) string {
	var sb strings.Builder
	today := models.FormatDate(now)

	sb.WriteString(fmt.Sprintf("# Frame Export - %s\n\n", today))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var metrics []models.MetricDefinition
	for _, m := range b.Metrics {
		if m.IsActive {
			metrics = append(metrics, m)
		}
	}

	if len(metrics) > 0 {
		sb.WriteString("## Metrics\n\n")
		sb.WriteString("| Metric | Type | Goal | Weight |\n")
		sb.WriteString("|--------|------|------|--------|\n")
		for _, m := range metrics {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				m.Name, m.Type, DescribeGoal(m), formatNumber(m.FrameScoreWeight)))
		}
		sb.WriteString("\n")
	}

	byMonth := make(map[string][]models.DayEntry)
	for _, d := range b.Days {
		if since != "" && d.Date < since {
			continue
		}
		month := models.MonthOf(d.Date)
		byMonth[month] = append(byMonth[month], d)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	for _, month := range months {
		sb.WriteString(fmt.Sprintf("## %s\n\n", month))
		sb.WriteString("| Date |")
		for _, m := range metrics {
			sb.WriteString(fmt.Sprintf(" %s |", m.Name))
		}
		sb.WriteString("\n|------|")
		for range metrics {
			sb.WriteString("------|")
		}
		sb.WriteString("\n")

		days := byMonth[month]
		models.SortDays(days)
		for _, d := range days {
			sb.WriteString(fmt.Sprintf("| %s |", d.Date))
			for _, m := range metrics {
				sb.WriteString(fmt.Sprintf(" %s |", formatCell(m, d.Get(m.Slug))))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// DescribeGoal renders a goal as text, for example ">= 500 usd" or "5 days/week".
func DescribeGoal(m models.MetricDefinition) string {
	unit := ""
	if m.Unit != "" {
		unit = " " + m.Unit
	}
	switch m.GoalType {
	case models.GoalAtLeast:
		return fmt.Sprintf(">= %s%s", formatNumber(m.GoalValue), unit)
	case models.GoalAtMost:
		return fmt.Sprintf("<= %s%s", formatNumber(m.GoalValue), unit)
	case models.GoalExact:
		return fmt.Sprintf("= %s%s", formatNumber(m.GoalValue), unit)
	case models.GoalBooleanDaysPerWeek:
		return fmt.Sprintf("%s days/week", formatNumber(m.GoalValue))
	}
	return string(m.GoalType)
}

func formatCell(m models.MetricDefinition, v models.Value) string {
	if v.IsNull() {
		return ""
	}
	text := v.String()
	if b, ok := v.Boolean(); ok {
		text = "no"
		if b {
			text = "yes"
		}
	}
	if goal.IsGoalMet(m, v) {
		return text + " ✓"
	}
	return text
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}
