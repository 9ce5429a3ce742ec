// ABOUTME: SQLite backend connection, lifecycle, and per-changeset transactions.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/harperreed/frame/internal/models"
)

// DB is the SQLite board backend.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps every transaction on the same WAL handle.
	db.SetMaxOpenConns(1)

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "frame")
}

// DBPath returns the SQLite file inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "frame.db")
}

// Path returns the database file path.
func (d *DB) Path() string { return d.dbPath }

func (d *DB) Name() string { return "sqlite" }

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Commit writes cs in a single transaction.
func (d *DB) Commit(cs models.Changeset) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if cs.Reset {
		for _, table := range []string{"day_values", "days", "metric_definitions", "board_meta"} {
			if _, err = tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	for _, id := range cs.DeletedMetricIDs {
		if _, err = tx.Exec(`DELETE FROM metric_definitions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete metric %s: %w", id, err)
		}
	}
	for i := range cs.Metrics {
		if err = upsertMetricRow(tx, &cs.Metrics[i]); err != nil {
			return err
		}
	}
	for _, day := range cs.Days {
		if err = upsertDayRows(tx, day); err != nil {
			return err
		}
	}
	if err = writeMeta(tx, cs.Meta); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load reads the whole board.
func (d *DB) Load() (models.Board, error) {
	var b models.Board

	metrics, err := d.listMetrics()
	if err != nil {
		return b, err
	}
	days, err := d.listDays()
	if err != nil {
		return b, err
	}
	meta, err := d.readMeta()
	if err != nil {
		return b, err
	}

	b.Metrics = metrics
	b.Days = days
	b.SelectedMonth = meta.SelectedMonth
	b.UpdatedAt = meta.UpdatedAt
	return b, nil
}
