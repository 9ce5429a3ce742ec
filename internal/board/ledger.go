// ABOUTME: Day-entry ledger operations on the Store.
// ABOUTME: Values merge into per-date entries; entries are created lazily or per month and never deleted.
package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/frame/internal/models"
)

// SetValue merges {slug: v} into date's entry, creating the entry if needed.
// Other slugs already logged for the date are left alone.
func (s *Store) SetValue(date, slug string, v models.Value) error {
	return s.UpsertDayEntry(date, map[string]models.Value{slug: v})
}

// ClearValue sets slug to null for date. The entry itself stays.
func (s *Store) ClearValue(date, slug string) error {
	return s.SetValue(date, slug, models.Null)
}

// UpsertDayEntry merges several values into date's entry at once.
// Every value is checked first; one bad value rejects the whole update.
func (s *Store) UpsertDayEntry(date string, values map[string]models.Value) error {
	return s.mutate("upsert day", func(time.Time) (*models.Changeset, error) {
		if err := models.ValidateDate(date); err != nil {
			return nil, err
		}
		resolved := make(map[string]models.Value, len(values))
		for slug, v := range values {
			key, err := s.checkValueLocked(slug, v)
			if err != nil {
				return nil, err
			}
			resolved[key] = v
		}

		entry, ok := s.days[date]
		if ok {
			entry = entry.Clone()
		} else {
			entry = models.NewDayEntry(date)
		}
		for slug, v := range resolved {
			entry.Values[slug] = v
		}
		return &models.Changeset{Days: []models.DayEntry{entry}}, nil
	})
}

// checkValueLocked rejects values for unknown slugs and values of the wrong kind,
// and returns the key the value is stored under: the metric's own slug.
// Null is always accepted so orphaned history can be cleared.
func (s *Store) checkValueLocked(slug string, v models.Value) (string, error) {
	m, ok := s.metricBySlugLocked(slug)
	if !ok {
		if v.IsNull() {
			return normalizeSlug(slug), nil
		}
		return "", fmt.Errorf("%w: metric %q", models.ErrNotFound, slug)
	}
	if !v.Matches(m.Type) {
		return "", fmt.Errorf("%w: %s is a %s metric, got %s", models.ErrValueType, m.Slug, m.Type, v)
	}
	return m.Slug, nil
}

// AddDay creates an empty entry for date if there is none and returns the entry.
func (s *Store) AddDay(date string) (models.DayEntry, error) {
	var out models.DayEntry
	err := s.mutate("add day", func(time.Time) (*models.Changeset, error) {
		if err := models.ValidateDate(date); err != nil {
			return nil, err
		}
		if existing, ok := s.days[date]; ok {
			out = existing.Clone()
			return nil, nil
		}
		out = models.NewDayEntry(date)
		return &models.Changeset{Days: []models.DayEntry{out}}, nil
	})
	if err != nil {
		return models.DayEntry{}, err
	}
	return out, nil
}

// EnsureMonthDays creates an empty entry for every date of month that lacks one.
// Subscribers are only notified when something was created.
func (s *Store) EnsureMonthDays(month string) error {
	return s.mutate("ensure month", func(time.Time) (*models.Changeset, error) {
		dates, err := models.MonthDates(month)
		if err != nil {
			return nil, err
		}
		var created []models.DayEntry
		for _, d := range dates {
			if _, ok := s.days[d]; !ok {
				created = append(created, models.NewDayEntry(d))
			}
		}
		if len(created) == 0 {
			return nil, nil
		}
		return &models.Changeset{Days: created}, nil
	})
}

// SetSelectedMonth records the month a board view should show by default.
func (s *Store) SetSelectedMonth(month string) error {
	return s.mutate("select month", func(time.Time) (*models.Changeset, error) {
		if _, err := models.ParseMonth(month); err != nil {
			return nil, err
		}
		return &models.Changeset{Meta: models.BoardMeta{SelectedMonth: month}}, nil
	})
}

// SelectedMonth returns the stored display month, which may be empty.
func (s *Store) SelectedMonth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedMonth
}

// DayEntry returns a copy of the entry for date.
func (s *Store) DayEntry(date string) (models.DayEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[date]
	if !ok {
		return models.DayEntry{}, false
	}
	return d.Clone(), true
}

// Days returns every entry sorted by date.
func (s *Store) Days() []models.DayEntry {
	return s.Snapshot().Days
}

// DaysInRange returns entries with start <= date <= end, sorted by date.
func (s *Store) DaysInRange(start, end string) ([]models.DayEntry, error) {
	if err := models.ValidateDate(start); err != nil {
		return nil, err
	}
	if err := models.ValidateDate(end); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.DayEntry
	for date, d := range s.days {
		if date >= start && date <= end {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// MonthDates lists every date of a YYYY-MM month.
func (s *Store) MonthDates(month string) ([]string, error) {
	return models.MonthDates(month)
}

// BoardData bundles a month's dates, the active metrics, and the existing entries.
// An empty month falls back to the selected month, then to the current month.
func (s *Store) BoardData(month string) (models.BoardData, error) {
	if month == "" {
		month = s.SelectedMonth()
	}
	if month == "" {
		month = models.MonthOf(s.Today())
	}

	dates, err := models.MonthDates(month)
	if err != nil {
		return models.BoardData{}, err
	}

	data := models.BoardData{
		Month:   month,
		Dates:   dates,
		Metrics: s.ActiveMetrics(),
		Days:    make(map[string]models.DayEntry),
	}
	if data.Metrics == nil {
		data.Metrics = []models.MetricDefinition{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range dates {
		if entry, ok := s.days[d]; ok {
			data.Days[d] = entry.Clone()
		}
	}
	return data, nil
}
