// ABOUTME: Metric definition rows for SQLite storage.
// ABOUTME: Upserts by id inside a commit transaction and lists definitions in display order.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/frame/internal/models"
)

// upsertMetricRow inserts or replaces one definition.
func upsertMetricRow(tx *sql.Tx, m *models.MetricDefinition) error {
	query := `
		INSERT INTO metric_definitions (
			id, name, slug, metric_type, unit, goal_type, goal_value,
			is_active, sort_order, color, frame_score_weight, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			metric_type = excluded.metric_type,
			unit = excluded.unit,
			goal_type = excluded.goal_type,
			goal_value = excluded.goal_value,
			is_active = excluded.is_active,
			sort_order = excluded.sort_order,
			color = excluded.color,
			frame_score_weight = excluded.frame_score_weight,
			updated_at = excluded.updated_at
	`
	_, err := tx.Exec(query,
		m.ID,
		m.Name,
		m.Slug,
		string(m.Type),
		m.Unit,
		string(m.GoalType),
		m.GoalValue,
		m.IsActive,
		m.SortOrder,
		m.Color,
		m.FrameScoreWeight,
		m.CreatedAt.Format(time.RFC3339Nano),
		m.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert metric %s: %w", m.Slug, err)
	}
	return nil
}

// listMetrics returns every definition by sort order.
func (d *DB) listMetrics() ([]models.MetricDefinition, error) {
	query := `
		SELECT id, name, slug, metric_type, unit, goal_type, goal_value,
			is_active, sort_order, color, frame_score_weight, created_at, updated_at
		FROM metric_definitions
		ORDER BY sort_order, created_at
	`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []models.MetricDefinition
	for rows.Next() {
		var m models.MetricDefinition
		var metricType, goalType, createdAt, updatedAt string

		err := rows.Scan(&m.ID, &m.Name, &m.Slug, &metricType, &m.Unit, &goalType, &m.GoalValue,
			&m.IsActive, &m.SortOrder, &m.Color, &m.FrameScoreWeight, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}

		m.Type = models.MetricType(metricType)
		m.GoalType = models.GoalType(goalType)
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		m.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	models.SortMetrics(metrics)
	return metrics, nil
}
