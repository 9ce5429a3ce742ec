// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for metric definitions, days, per-day values, and board metadata.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metric_definitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		metric_type TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		goal_type TEXT NOT NULL,
		goal_value REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		color TEXT NOT NULL DEFAULT '',
		frame_score_weight REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS days (
		date TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS day_values (
		date TEXT NOT NULL,
		slug TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (date, slug),
		FOREIGN KEY (date) REFERENCES days(date) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS board_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		selected_month TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_metric_definitions_order ON metric_definitions(sort_order, created_at);
	CREATE INDEX IF NOT EXISTS idx_day_values_slug ON day_values(slug, date);
	`

	_, err := d.db.Exec(schema)
	return err
}
