// ABOUTME: Board aggregate (metrics + day entries + selected month) and the Changeset
// ABOUTME: a single mutation hands to a persistence journal.
package models

import (
	"sort"
	"time"
)

// Board is the whole tracked state owned by one store.
type Board struct {
	Metrics       []MetricDefinition `json:"metrics" yaml:"metrics"`
	Days          []DayEntry         `json:"days" yaml:"days"`
	SelectedMonth string             `json:"selected_month,omitempty" yaml:"selected_month,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := Board{
		Metrics:       make([]MetricDefinition, len(b.Metrics)),
		Days:          make([]DayEntry, len(b.Days)),
		SelectedMonth: b.SelectedMonth,
		UpdatedAt:     b.UpdatedAt,
	}
	copy(out.Metrics, b.Metrics)
	for i, d := range b.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// BoardMeta is the board-level scalar state.
type BoardMeta struct {
	SelectedMonth string    `json:"selected_month,omitempty" yaml:"selected_month,omitempty"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// BoardData bundles what a month grid needs to render.
type BoardData struct {
	Month   string              `json:"month"`
	Dates   []string            `json:"dates"`
	Metrics []MetricDefinition  `json:"metrics"`
	Days    map[string]DayEntry `json:"days"`
}

// Changeset is everything one mutation wrote. Journals persist it atomically.
type Changeset struct {
	Reset            bool
	Metrics          []MetricDefinition
	DeletedMetricIDs []string
	Days             []DayEntry
	Meta             BoardMeta
}

// SortMetrics orders definitions by SortOrder, then creation time, then id.
func SortMetrics(metrics []MetricDefinition) {
	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].SortOrder != metrics[j].SortOrder {
			return metrics[i].SortOrder < metrics[j].SortOrder
		}
		if !metrics[i].CreatedAt.Equal(metrics[j].CreatedAt) {
			return metrics[i].CreatedAt.Before(metrics[j].CreatedAt)
		}
		return metrics[i].ID < metrics[j].ID
	})
}

// Apply writes cs into b the same way a store applies a committed mutation.
func (b *Board) Apply(cs Changeset) {
	if cs.Reset {
		b.Metrics = nil
		b.Days = nil
	}

	for _, m := range cs.Metrics {
		replaced := false
		for i := range b.Metrics {
			if b.Metrics[i].ID == m.ID {
				b.Metrics[i] = m
				replaced = true
				break
			}
		}
		if !replaced {
			b.Metrics = append(b.Metrics, m)
		}
	}

	if len(cs.DeletedMetricIDs) > 0 {
		deleted := make(map[string]bool, len(cs.DeletedMetricIDs))
		for _, id := range cs.DeletedMetricIDs {
			deleted[id] = true
		}
		kept := b.Metrics[:0]
		for _, m := range b.Metrics {
			if !deleted[m.ID] {
				kept = append(kept, m)
			}
		}
		b.Metrics = kept
	}

	for _, d := range cs.Days {
		replaced := false
		for i := range b.Days {
			if b.Days[i].Date == d.Date {
				b.Days[i] = d.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			b.Days = append(b.Days, d.Clone())
		}
	}

	SortMetrics(b.Metrics)
	SortDays(b.Days)
	b.SelectedMonth = cs.Meta.SelectedMonth
	b.UpdatedAt = cs.Meta.UpdatedAt
}
