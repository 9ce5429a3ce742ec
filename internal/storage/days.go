// ABOUTME: Day and day-value rows for SQLite storage, plus the board metadata row.
// ABOUTME: Each value is stored as its JSON encoding so null, numbers, and booleans round-trip.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/frame/internal/models"
)

// upsertDayRows writes the full value map of one entry, replacing what was stored.
func upsertDayRows(tx *sql.Tx, day models.DayEntry) error {
	if _, err := tx.Exec(`INSERT OR IGNORE INTO days (date) VALUES (?)`, day.Date); err != nil {
		return fmt.Errorf("insert day %s: %w", day.Date, err)
	}
	if _, err := tx.Exec(`DELETE FROM day_values WHERE date = ?`, day.Date); err != nil {
		return fmt.Errorf("clear day %s: %w", day.Date, err)
	}

	for slug, v := range day.Values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s on %s: %w", slug, day.Date, err)
		}
		_, err = tx.Exec(`INSERT INTO day_values (date, slug, value) VALUES (?, ?, ?)`, day.Date, slug, string(raw))
		if err != nil {
			return fmt.Errorf("insert value %s on %s: %w", slug, day.Date, err)
		}
	}
	return nil
}

// listDays returns every entry sorted by date.
func (d *DB) listDays() ([]models.DayEntry, error) {
	rows, err := d.db.Query(`SELECT date FROM days ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	var days []models.DayEntry
	index := make(map[string]int)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan day: %w", err)
		}
		index[date] = len(days)
		days = append(days, models.NewDayEntry(date))
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	vrows, err := d.db.Query(`SELECT date, slug, value FROM day_values`)
	if err != nil {
		return nil, fmt.Errorf("list day values: %w", err)
	}
	defer func() { _ = vrows.Close() }()

	for vrows.Next() {
		var date, slug, raw string
		if err := vrows.Scan(&date, &slug, &raw); err != nil {
			return nil, fmt.Errorf("scan day value: %w", err)
		}
		i, ok := index[date]
		if !ok {
			continue
		}
		var v models.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode %s on %s: %w", slug, date, err)
		}
		days[i].Values[slug] = v
	}
	return days, vrows.Err()
}

func writeMeta(tx *sql.Tx, meta models.BoardMeta) error {
	_, err := tx.Exec(`
		INSERT INTO board_meta (id, selected_month, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET selected_month = excluded.selected_month, updated_at = excluded.updated_at
	`, meta.SelectedMonth, meta.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write board meta: %w", err)
	}
	return nil
}

func (d *DB) readMeta() (models.BoardMeta, error) {
	var meta models.BoardMeta
	var updatedAt string
	err := d.db.QueryRow(`SELECT selected_month, updated_at FROM board_meta WHERE id = 1`).
		Scan(&meta.SelectedMonth, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("read board meta: %w", err)
	}
	meta.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return meta, nil
}
