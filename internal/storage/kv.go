// ABOUTME: Key layout and JSON encoding shared by the key-value backends (badger, charm).
// ABOUTME: metric:<id>, day:<date>, and meta:board hold one JSON document each.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/frame/internal/models"
)

const (
	MetricPrefix = "metric:"
	DayPrefix    = "day:"
	MetaKey      = "meta:board"
)

// kvPrefixes lists every prefix a reset must clear.
var kvPrefixes = []string{MetricPrefix, DayPrefix, MetaKey}

type kvOp struct {
	key    string
	value  []byte
	delete bool
}

// changesetOps flattens cs into puts and deletes. Reset is the caller's job.
func changesetOps(cs models.Changeset) ([]kvOp, error) {
	var ops []kvOp
	for _, id := range cs.DeletedMetricIDs {
		ops = append(ops, kvOp{key: MetricPrefix + id, delete: true})
	}
	for _, m := range cs.Metrics {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal metric: %w", err)
		}
		ops = append(ops, kvOp{key: MetricPrefix + m.ID, value: data})
	}
	for _, d := range cs.Days {
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal day: %w", err)
		}
		ops = append(ops, kvOp{key: DayPrefix + d.Date, value: data})
	}
	data, err := json.Marshal(cs.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshal meta: %w", err)
	}
	ops = append(ops, kvOp{key: MetaKey, value: data})
	return ops, nil
}

// boardLoader rebuilds a board from key/value pairs in any order.
type boardLoader struct {
	board models.Board
}

func (l *boardLoader) add(key string, value []byte) error {
	switch {
	case strings.HasPrefix(key, MetricPrefix):
		var m models.MetricDefinition
		if err := json.Unmarshal(value, &m); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		l.board.Metrics = append(l.board.Metrics, m)
	case strings.HasPrefix(key, DayPrefix):
		var d models.DayEntry
		if err := json.Unmarshal(value, &d); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if d.Values == nil {
			d.Values = map[string]models.Value{}
		}
		l.board.Days = append(l.board.Days, d)
	case key == MetaKey:
		var meta models.BoardMeta
		if err := json.Unmarshal(value, &meta); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		l.board.SelectedMonth = meta.SelectedMonth
		l.board.UpdatedAt = meta.UpdatedAt
	}
	return nil
}

func (l *boardLoader) result() models.Board {
	models.SortMetrics(l.board.Metrics)
	models.SortDays(l.board.Days)
	return l.board
}
