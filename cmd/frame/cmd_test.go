// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands in-process against a temporary data directory and checks stored results.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harperreed/frame/internal/config"
	"github.com/harperreed/frame/internal/models"
	"github.com/harperreed/frame/internal/storage"
)

// setupTestCLI points XDG dirs at a temp dir and returns the frame data directory.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	for _, key := range []string{"FRAME_BACKEND", "FRAME_DATA_DIR", "FRAME_LOG_LEVEL", "FRAME_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	color.NoColor = true
	t.Cleanup(func() { _ = closeStore() })
	return filepath.Join(tmp, "data", "frame")
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLIInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLIInput(t, "", args...)
	if err != nil {
		t.Fatalf("frame %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// loadBoard reads what the sqlite backend in dataDir holds.
func loadBoard(t *testing.T, dataDir string) models.Board {
	t.Helper()
	db, err := storage.Open(storage.DBPath(dataDir))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	b, err := db.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return b
}

func addTestMetrics(t *testing.T) {
	t.Helper()
	runCLI(t, "metric", "add", "Workout", "--type", "boolean", "--goal", "5")
	runCLI(t, "metric", "add", "Income", "--unit", "usd", "--goal", "500", "--weight", "1")
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"today", "2024-06-10", false},
		{"", "2024-06-10", false},
		{"Yesterday", "2024-06-09", false},
		{"2024-02-29", "2024-02-29", false},
		{"2024-02-30", "", true},
		{"06/10/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDay(tt.input, "2024-06-10")
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDay(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCellText(t *testing.T) {
	workout := models.MetricDefinition{Slug: "workout", Type: models.MetricBoolean, GoalType: models.GoalBooleanDaysPerWeek, GoalValue: 5}
	income := models.MetricDefinition{Slug: "income", Type: models.MetricNumber, GoalType: models.GoalAtLeast, GoalValue: 500}

	tests := []struct {
		name    string
		metric  models.MetricDefinition
		value   models.Value
		want    string
		wantMet bool
	}{
		{"null", income, models.Null, "·", false},
		{"bool yes", workout, models.Bool(true), "yes ✓", true},
		{"bool no", workout, models.Bool(false), "no", false},
		{"number met", income, models.Number(612.5), "612.5 ✓", true},
		{"number missed", income, models.Number(499), "499", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, met := cellText(tt.metric, tt.value)
			if got != tt.want || met != tt.wantMet {
				t.Errorf("cellText() = (%q, %v), want (%q, %v)", got, met, tt.want, tt.wantMet)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"yes ✓", 7, "yes ✓  "},
		{"·", 3, "·  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "frame" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "frame")
	}
	for _, name := range []string{"backend", "data-dir", "log-level", "ephemeral"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		path  []string
		alias string
	}{
		{[]string{"metric"}, "m"},
		{[]string{"metric", "list"}, "ls"},
		{[]string{"metric", "delete"}, "rm"},
		{[]string{"board"}, "b"},
		{[]string{"sync"}, "s"},
	}

	for _, tt := range tests {
		cmd, _, err := rootCmd.Find(tt.path)
		if err != nil {
			t.Fatalf("find %v: %v", tt.path, err)
		}
		found := false
		for _, a := range cmd.Aliases {
			if a == tt.alias {
				found = true
			}
		}
		if !found {
			t.Errorf("%v: expected alias %q, got %v", tt.path, tt.alias, cmd.Aliases)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	for _, a := range exportCmd.ValidArgs {
		delete(want, a)
	}
	if len(want) != 0 {
		t.Errorf("export is missing valid args %v", want)
	}
}

func TestMetricAddAndList(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	out := runCLI(t, "metric", "list")
	for _, want := range []string{"workout", "boolean", "5 days/week", "income", ">= 500 usd", "weight 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("metric list output missing %q:\n%s", want, out)
		}
	}

	b := loadBoard(t, dataDir)
	if len(b.Metrics) != 2 {
		t.Fatalf("stored %d metrics, want 2", len(b.Metrics))
	}
	if b.Metrics[0].Slug != "workout" || b.Metrics[1].Slug != "income" {
		t.Errorf("metric order = %s, %s", b.Metrics[0].Slug, b.Metrics[1].Slug)
	}
	if b.Metrics[1].FrameScoreWeight != 1 {
		t.Errorf("income weight = %v, want 1", b.Metrics[1].FrameScoreWeight)
	}
}

func TestMetricAddRejectsBadType(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLIInput(t, "", "metric", "add", "Mood", "--type", "scale"); err == nil {
		t.Fatal("expected error for unknown metric type")
	}
	if _, err := runCLIInput(t, "", "metric", "add", "Mood", "--goal-type", "most"); err == nil {
		t.Fatal("expected error for unknown goal type")
	}
}

func TestMetricAddDuplicate(t *testing.T) {
	setupTestCLI(t)
	addTestMetrics(t)

	if _, err := runCLIInput(t, "", "metric", "add", "income"); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestMetricEditOnlyChangesGivenFlags(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	runCLI(t, "metric", "edit", "income", "--goal", "600")

	b := loadBoard(t, dataDir)
	income := b.Metrics[1]
	if income.GoalValue != 600 {
		t.Errorf("goal = %v, want 600", income.GoalValue)
	}
	if income.Unit != "usd" || income.FrameScoreWeight != 1 || income.GoalType != models.GoalAtLeast {
		t.Errorf("unrelated fields changed: %+v", income)
	}
}

func TestMetricEditClearsUnit(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	runCLI(t, "metric", "edit", "income", "--color", "#22aa55")
	runCLI(t, "metric", "edit", "income", "--unit", "")

	income := loadBoard(t, dataDir).Metrics[1]
	if income.Unit != "" {
		t.Errorf("unit = %q, want cleared", income.Unit)
	}
	if income.Color != "#22aa55" || income.GoalValue != 500 {
		t.Errorf("unrelated fields changed: %+v", income)
	}
}

func TestMetricToggleDeleteReorder(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	out := runCLI(t, "metric", "toggle", "workout")
	if !strings.Contains(out, "inactive") {
		t.Errorf("toggle output = %q", out)
	}
	out = runCLI(t, "metric", "list")
	if strings.Contains(out, "workout") {
		t.Errorf("inactive metric listed without --all:\n%s", out)
	}
	out = runCLI(t, "metric", "list", "--all")
	if !strings.Contains(out, "(inactive)") {
		t.Errorf("--all should show inactive metric:\n%s", out)
	}

	runCLI(t, "metric", "reorder", "income", "workout")
	b := loadBoard(t, dataDir)
	if b.Metrics[0].Slug != "income" {
		t.Errorf("first metric = %s, want income", b.Metrics[0].Slug)
	}

	runCLI(t, "metric", "rm", "workout")
	b = loadBoard(t, dataDir)
	if len(b.Metrics) != 1 {
		t.Errorf("metrics after delete = %d, want 1", len(b.Metrics))
	}
}

func TestLogMergesValues(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	out := runCLI(t, "log", "2024-06-01", "workout=yes")
	if !strings.Contains(out, "Logged 2024-06-01") || !strings.Contains(out, "yes ✓") {
		t.Errorf("log output = %q", out)
	}
	runCLI(t, "log", "2024-06-01", "income=612.50")

	b := loadBoard(t, dataDir)
	if len(b.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(b.Days))
	}
	day := b.Days[0]
	if v, _ := day.Get("workout").Boolean(); !v {
		t.Error("workout should still be logged after second log call")
	}
	if v, _ := day.Get("income").Float(); v != 612.5 {
		t.Errorf("income = %v, want 612.5", v)
	}

	runCLI(t, "clear", "2024-06-01", "income")
	b = loadBoard(t, dataDir)
	if !b.Days[0].Get("income").IsNull() {
		t.Error("income should be cleared")
	}
}

func TestLogErrors(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown slug", []string{"log", "today", "sleep=8"}},
		{"bad number", []string{"log", "today", "income=lots"}},
		{"bad bool", []string{"log", "today", "workout=maybe"}},
		{"missing equals", []string{"log", "today", "income"}},
		{"bad date", []string{"log", "2024-13-01", "income=1"}},
		{"one bad value rejects all", []string{"log", "today", "income=100", "workout=maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLIInput(t, "", tt.args...); err == nil {
				t.Errorf("frame %v: expected error", tt.args)
			}
		})
	}

	if b := loadBoard(t, dataDir); len(b.Days) != 0 {
		t.Errorf("failed logs created %d days", len(b.Days))
	}
}

func TestBoardRendersMonth(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)
	runCLI(t, "log", "2024-06-01", "workout=yes", "income=450")

	out := runCLI(t, "board", "2024-06", "--select", "--fill")
	for _, want := range []string{"2024-06", "workout", "income", "yes ✓", "450", "2024-06-30"} {
		if !strings.Contains(out, want) {
			t.Errorf("board output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "450 ✓") {
		t.Error("450 should not meet a >= 500 goal")
	}

	b := loadBoard(t, dataDir)
	if b.SelectedMonth != "2024-06" {
		t.Errorf("selected month = %q", b.SelectedMonth)
	}
	if len(b.Days) != 30 {
		t.Errorf("days after --fill = %d, want 30", len(b.Days))
	}

	// Without an argument the selected month is shown.
	out = runCLI(t, "board")
	if !strings.HasPrefix(out, "2024-06") {
		t.Errorf("board without month should show selected month, got:\n%s", out)
	}
}

func TestBoardWithoutMetrics(t *testing.T) {
	setupTestCLI(t)
	out := runCLI(t, "board", "2024-06")
	if !strings.Contains(out, "No active metrics") {
		t.Errorf("board output = %q", out)
	}
}

func TestStatsAndHistory(t *testing.T) {
	setupTestCLI(t)
	addTestMetrics(t)
	runCLI(t, "log", "2024-06-01", "income=600", "workout=yes")
	runCLI(t, "log", "2024-06-02", "income=400", "workout=no")

	out := runCLI(t, "stats", "income", "--from", "2024-06-01", "--to", "2024-06-30")
	for _, want := range []string{"sum      1000 usd", "count    2 of 30 days", "average  500.00 usd"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}

	out = runCLI(t, "stats", "workout", "--from", "2024-06-01", "--to", "2024-06-30")
	if !strings.Contains(out, "checked  1 of 30 days") {
		t.Errorf("boolean stats output:\n%s", out)
	}

	out = runCLI(t, "history", "income", "--from", "2024-06-01", "--to", "2024-06-30")
	for _, want := range []string{"2024-06-01 ✓", "2024-06-02 ✗", "1 of 2 days met the goal (>= 500 usd)"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}

	out = runCLI(t, "history", "income", "--from", "2024-06-01", "--to", "2024-06-30", "--misses")
	if strings.Contains(out, "2024-06-01") {
		t.Errorf("--misses should hide met days:\n%s", out)
	}

	if _, err := runCLIInput(t, "", "stats", "sleep"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestStreakAndCompliance(t *testing.T) {
	setupTestCLI(t)
	addTestMetrics(t)

	out := runCLI(t, "streak", "income")
	if !strings.Contains(out, "no current streak") {
		t.Errorf("streak on empty board:\n%s", out)
	}

	runCLI(t, "log", "yesterday", "income=400")
	runCLI(t, "log", "today", "income=600")

	out = runCLI(t, "streak", "income")
	if !strings.Contains(out, "Income: 2 days") {
		t.Errorf("streak output:\n%s", out)
	}

	out = runCLI(t, "compliance", "--days", "7")
	if !strings.Contains(out, "income") || !strings.Contains(out, "1/2 days") {
		t.Errorf("compliance output:\n%s", out)
	}
	if strings.Contains(out, "workout") {
		t.Errorf("unweighted metric in compliance:\n%s", out)
	}

	if _, err := runCLIInput(t, "", "compliance", "--days", "0"); err == nil {
		t.Error("expected error for --days 0")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)
	runCLI(t, "log", "2024-06-01", "income=600", "workout=yes")

	backup := filepath.Join(t.TempDir(), "backup.json")
	runCLI(t, "export", "-o", backup)

	info, err := os.Stat(backup)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("export file mode = %v, want 0600", info.Mode().Perm())
	}

	out := runCLI(t, "reset")
	if !strings.Contains(out, "--yes") {
		t.Errorf("reset without --yes should ask:\n%s", out)
	}
	if b := loadBoard(t, dataDir); len(b.Metrics) != 2 {
		t.Fatal("reset without --yes must not clear the board")
	}

	runCLI(t, "reset", "--yes")
	if b := loadBoard(t, dataDir); len(b.Metrics) != 0 || len(b.Days) != 0 {
		t.Fatalf("board after reset: %d metrics, %d days", len(b.Metrics), len(b.Days))
	}

	runCLI(t, "import", backup)
	if b := loadBoard(t, dataDir); len(b.Metrics) != 0 {
		t.Fatal("import without --yes must not restore")
	}

	out = runCLI(t, "import", backup, "--yes")
	if !strings.Contains(out, "Imported 2 metrics and 1 days") {
		t.Errorf("import output:\n%s", out)
	}
	b := loadBoard(t, dataDir)
	if len(b.Metrics) != 2 || len(b.Days) != 1 {
		t.Fatalf("board after import: %d metrics, %d days", len(b.Metrics), len(b.Days))
	}
	if v, _ := b.Days[0].Get("income").Float(); v != 600 {
		t.Errorf("income after import = %v", v)
	}
}

func TestExportFormats(t *testing.T) {
	setupTestCLI(t)
	addTestMetrics(t)
	runCLI(t, "log", "2024-06-01", "income=600")

	out := runCLI(t, "export", "yaml")
	if !strings.Contains(out, "slug: income") {
		t.Errorf("yaml export:\n%s", out)
	}

	out = runCLI(t, "export", "markdown", "--since", "2024-06-01")
	if !strings.Contains(out, "# Frame Export") || !strings.Contains(out, "600 ✓") {
		t.Errorf("markdown export:\n%s", out)
	}

	if _, err := runCLIInput(t, "", "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMigrateToYAML(t *testing.T) {
	dataDir := setupTestCLI(t)
	addTestMetrics(t)
	runCLI(t, "log", "2024-06-01", "income=600", "workout=yes")

	out := runCLI(t, "migrate", "--to", "yaml", "--dry-run")
	if !strings.Contains(out, "Would copy 2 metrics and 1 days from sqlite to yaml") {
		t.Errorf("dry run output:\n%s", out)
	}
	if _, err := os.Stat(storage.YAMLPath(dataDir)); !os.IsNotExist(err) {
		t.Fatal("dry run must not write the destination")
	}

	out = runCLI(t, "migrate", "--to", "yaml")
	if !strings.Contains(out, "Values:  2") {
		t.Errorf("migrate output:\n%s", out)
	}

	data, err := os.ReadFile(storage.YAMLPath(dataDir))
	if err != nil {
		t.Fatalf("yaml file: %v", err)
	}
	if !strings.Contains(string(data), "slug: income") {
		t.Errorf("yaml file content:\n%s", data)
	}

	if _, err := runCLIInput(t, "", "migrate", "--to", "yaml"); err == nil {
		t.Error("expected error migrating into a non-empty destination")
	}
	runCLI(t, "migrate", "--to", "yaml", "--force")

	// The yaml backend now serves the same board.
	out = runCLI(t, "--backend", "yaml", "metric", "list")
	if !strings.Contains(out, "income") {
		t.Errorf("yaml backend metric list:\n%s", out)
	}

	if _, err := runCLIInput(t, "", "migrate", "--to", "sqlite"); err == nil {
		t.Error("expected error migrating into the current backend")
	}
	if _, err := runCLIInput(t, "", "migrate"); err == nil {
		t.Error("expected error without --to")
	}
}

func TestConfigCommands(t *testing.T) {
	setupTestCLI(t)

	out := runCLI(t, "config", "path")
	if strings.TrimSpace(out) != config.GetConfigPath() {
		t.Errorf("config path = %q, want %q", out, config.GetConfigPath())
	}

	runCLI(t, "config", "set", "backend", "yaml")
	out = runCLI(t, "config", "show")
	if !strings.Contains(out, "yaml") {
		t.Errorf("config show after set:\n%s", out)
	}

	cfgFile, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfgFile.Backend != "yaml" {
		t.Errorf("saved backend = %q, want yaml", cfgFile.Backend)
	}

	if _, err := runCLIInput(t, "", "config", "set", "backend", "floppy"); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := runCLIInput(t, "", "config", "set", "colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigSetDoesNotPersistFlags(t *testing.T) {
	setupTestCLI(t)

	runCLI(t, "--backend", "badger", "config", "set", "log_level", "info")
	c, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.Backend != "" {
		t.Errorf("--backend leaked into the config file: %q", c.Backend)
	}
	if c.LogLevel != "info" {
		t.Errorf("log_level = %q, want info", c.LogLevel)
	}
}

func TestEphemeralBackend(t *testing.T) {
	dataDir := setupTestCLI(t)

	runCLI(t, "--ephemeral", "metric", "add", "Income")
	out := runCLI(t, "metric", "list")
	if !strings.Contains(out, "No metrics defined") {
		t.Errorf("ephemeral metric leaked into sqlite:\n%s", out)
	}
	if b := loadBoard(t, dataDir); len(b.Metrics) != 0 {
		t.Errorf("sqlite holds %d metrics", len(b.Metrics))
	}
}

func TestSyncNeedsCharmBackend(t *testing.T) {
	setupTestCLI(t)

	out := runCLI(t, "sync", "status")
	if !strings.Contains(out, "sync needs the charm backend (current: sqlite)") {
		t.Errorf("sync status output:\n%s", out)
	}
	if _, err := runCLIInput(t, "", "sync", "now"); err == nil {
		t.Error("expected error syncing a non-charm backend")
	}
}

func TestSyncDestructiveCommandsNeedConfirmation(t *testing.T) {
	setupTestCLI(t)

	out, err := runCLIInput(t, "n\n", "sync", "reset")
	if err != nil {
		t.Fatalf("sync reset: %v", err)
	}
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("sync reset output:\n%s", out)
	}

	out, err = runCLIInput(t, "yes\n", "sync", "wipe")
	if err != nil {
		t.Fatalf("sync wipe: %v", err)
	}
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("sync wipe should require typing 'wipe':\n%s", out)
	}
}
