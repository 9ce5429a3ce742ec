// ABOUTME: Data migration between board storage backends.
// ABOUTME: Loads the whole board from the source and writes it to the destination in one commit.

package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/frame/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Metrics int
	Days    int
	Values  int
}

// MigrateData copies the full board from src to dst, replacing whatever dst held.
func MigrateData(src, dst Backend) (*MigrateSummary, error) {
	b, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	cs := models.Changeset{
		Reset:   true,
		Metrics: b.Metrics,
		Days:    b.Days,
		Meta:    models.BoardMeta{SelectedMonth: b.SelectedMonth, UpdatedAt: updatedAt},
	}
	if err := dst.Commit(cs); err != nil {
		return nil, fmt.Errorf("write %s: %w", dst.Name(), err)
	}

	summary := &MigrateSummary{Metrics: len(b.Metrics), Days: len(b.Days)}
	for _, d := range b.Days {
		for _, v := range d.Values {
			if !v.IsNull() {
				summary.Values++
			}
		}
	}
	return summary, nil
}
