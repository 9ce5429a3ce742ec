// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and restoring an import.
package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/frame/internal/board"
	"github.com/harperreed/frame/internal/models"
)

func populatedBoard(t *testing.T) *board.Store {
	t.Helper()
	s, err := OpenStore(NewMemory(), board.WithClock(testClock))
	require.NoError(t, err)
	populate(t, s)
	require.NoError(t, s.SetValue("2024-05-31", "income", models.Number(450)))
	return s
}

func TestExportJSON(t *testing.T) {
	s := populatedBoard(t)

	data, err := ExportJSON(*s.Snapshot(), testNow)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "frame" {
		t.Errorf("Expected tool frame, got %s", export.Tool)
	}
	if len(export.Metrics) != 2 {
		t.Errorf("Expected 2 metrics, got %d", len(export.Metrics))
	}
	if export.SelectedMonth != "2024-06" {
		t.Errorf("Expected selected month 2024-06, got %s", export.SelectedMonth)
	}
	if !strings.Contains(string(data), `"income": null`) {
		t.Errorf("Expected cleared value to export as null:\n%s", data)
	}
}

func TestExportYAML(t *testing.T) {
	s := populatedBoard(t)

	data, err := ExportYAML(*s.Snapshot(), testNow)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var export ExportData
	if err := yaml.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if export.Tool != "frame" {
		t.Errorf("Expected tool frame, got %s", export.Tool)
	}
	if len(export.Days) != len(s.Days()) {
		t.Errorf("Expected %d days, got %d", len(s.Days()), len(export.Days))
	}
}

func TestExportEmptyBoard(t *testing.T) {
	data, err := ExportJSON(models.Board{}, testNow)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"metrics": []`)
	assert.Contains(t, string(data), `"days": []`)
}

func TestImportRoundTrip(t *testing.T) {
	s := populatedBoard(t)
	want := s.Snapshot()

	tests := []struct {
		name   string
		export func() ([]byte, error)
	}{
		{"json", func() ([]byte, error) { return ExportJSON(*want, testNow) }},
		{"yaml", func() ([]byte, error) { return ExportYAML(*want, testNow) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.export()
			require.NoError(t, err)

			imported, err := ImportAuto(data)
			require.NoError(t, err)

			dst, err := OpenStore(NewMemory(), board.WithClock(testClock))
			require.NoError(t, err)
			require.NoError(t, dst.Restore(imported.Board()))

			got := dst.Snapshot()
			assert.Equal(t, want.Metrics, got.Metrics)
			assert.Equal(t, want.Days, got.Days)
			assert.Equal(t, want.SelectedMonth, got.SelectedMonth)
		})
	}
}

func TestImportInvalid(t *testing.T) {
	_, err := ImportJSON([]byte("{not json"))
	assert.Error(t, err)

	_, err = ImportAuto([]byte("metrics: [\n"))
	assert.Error(t, err)
}

func TestImportRestoreRejectsDuplicateSlugs(t *testing.T) {
	data := []byte(`{
  "version": "1.0",
  "metrics": [
    {"id": "a", "name": "Steps", "slug": "steps", "type": "number", "goal_type": "at_least", "goal_value": 1, "is_active": true},
    {"id": "b", "name": "Steps", "slug": "steps", "type": "number", "goal_type": "at_least", "goal_value": 2, "is_active": true}
  ],
  "days": []
}`)
	imported, err := ImportJSON(data)
	require.NoError(t, err)

	s, err := OpenStore(NewMemory())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Restore(imported.Board()), models.ErrDuplicateSlug)
}

func TestExportMarkdown(t *testing.T) {
	s := populatedBoard(t)
	md := ExportMarkdown(*s.Snapshot(), testNow, "")

	if !strings.Contains(md, "# Frame Export - 2024-06-05") {
		t.Error("Expected markdown header")
	}
	if !strings.Contains(md, "| Income | number | >= 500 usd | 1 |") {
		t.Errorf("Expected income metric row:\n%s", md)
	}
	if strings.Contains(md, "| Workout |") {
		t.Error("Inactive metrics should not be exported as columns")
	}
	if !strings.Contains(md, "| 2024-05-31 | 450 |") {
		t.Errorf("Expected unmet value without check mark:\n%s", md)
	}

	june := strings.Index(md, "## 2024-06")
	may := strings.Index(md, "## 2024-05")
	if june < 0 || may < 0 || june > may {
		t.Error("Expected months newest first")
	}
}

func TestExportMarkdownSince(t *testing.T) {
	s := populatedBoard(t)
	require.NoError(t, s.SetValue("2024-06-03", "income", models.Number(700)))

	md := ExportMarkdown(*s.Snapshot(), testNow, "2024-06-01")
	assert.NotContains(t, md, "## 2024-05")
	assert.Contains(t, md, "| 2024-06-03 | 700 ✓ |")
}

func TestFormatCell(t *testing.T) {
	workout := models.MetricDefinition{Slug: "workout", Type: models.MetricBoolean, GoalType: models.GoalBooleanDaysPerWeek, GoalValue: 5}
	sleep := models.MetricDefinition{Slug: "sleep", Type: models.MetricNumber, GoalType: models.GoalAtMost, GoalValue: 8}

	tests := []struct {
		name   string
		metric models.MetricDefinition
		value  models.Value
		want   string
	}{
		{"null", workout, models.Null, ""},
		{"yes", workout, models.Bool(true), "yes ✓"},
		{"no", workout, models.Bool(false), "no"},
		{"under max", sleep, models.Number(7.5), "7.5 ✓"},
		{"over max", sleep, models.Number(9), "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.metric, tt.value); got != tt.want {
				t.Errorf("formatCell() = %q, want %q", got, tt.want)
			}
		})
	}
}
