// ABOUTME: Store is the observable board aggregate: metrics, day entries, and the selected month.
// ABOUTME: Mutations are serialized, journaled, applied, then announced to subscribers in order.
package board

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/frame/internal/models"
)

// Source is the read side presentation code depends on.
type Source interface {
	Subscribe(listener func()) (unsubscribe func())
	Snapshot() *models.Board
}

var _ Source = (*Store)(nil)

type listener struct {
	id uint64
	fn func()
}

// Store owns one board. All methods are safe for concurrent use; writes are
// serialized by a single mutex and listeners run after it is released.
type Store struct {
	mu            sync.Mutex
	metrics       map[string]models.MetricDefinition
	days          map[string]models.DayEntry
	selectedMonth string
	updatedAt     time.Time
	snap          *models.Board

	listeners []listener
	nextID    uint64

	journal Journal
	now     func() time.Time
	logger  *log.Logger
}

// New creates an empty store configured by opts.
func New(opts ...Option) *Store {
	s := &Store{
		metrics: make(map[string]models.MetricDefinition),
		days:    make(map[string]models.DayEntry),
		journal: nopJournal{},
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the store clock's calendar date.
func (s *Store) Today() string {
	return models.FormatDate(s.now())
}

// Subscribe registers listener to run after every successful mutation.
// Listeners run synchronously, in subscription order, and receive no payload.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns the current board. The pointer is stable until the next
// mutation and must be treated as read-only.
func (s *Store) Snapshot() *models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		b := models.Board{
			Metrics:       s.sortedMetricsLocked(),
			Days:          s.sortedDaysLocked(),
			SelectedMonth: s.selectedMonth,
			UpdatedAt:     s.updatedAt,
		}
		s.snap = &b
	}
	return s.snap
}

// UpdatedAt returns the time of the last successful mutation.
func (s *Store) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Reset clears every metric and day entry.
func (s *Store) Reset() error {
	return s.mutate("reset", func(time.Time) (*models.Changeset, error) {
		return &models.Changeset{Reset: true}, nil
	})
}

// Restore replaces the whole board with b in one commit. Metric ids are kept;
// slugs and value keys are lowercased, so slugs differing only in case collide.
func (s *Store) Restore(b models.Board) error {
	return s.mutate("restore", func(time.Time) (*models.Changeset, error) {
		metrics := make([]models.MetricDefinition, len(b.Metrics))
		seen := make(map[string]string, len(b.Metrics))
		for i := range b.Metrics {
			m := b.Metrics[i]
			m.Slug = normalizeSlug(m.Slug)
			if m.Slug == "" {
				m.Slug = models.Slugify(m.Name)
			}
			metrics[i] = m
			if err := m.Validate(); err != nil {
				return nil, fmt.Errorf("metric %q: %w", m.Name, err)
			}
			if other, ok := seen[m.Slug]; ok && other != m.ID {
				return nil, fmt.Errorf("%w: %s", models.ErrDuplicateSlug, m.Slug)
			}
			seen[m.Slug] = m.ID
		}
		for _, d := range b.Days {
			if err := models.ValidateDate(d.Date); err != nil {
				return nil, err
			}
		}
		if b.SelectedMonth != "" {
			if _, err := models.ParseMonth(b.SelectedMonth); err != nil {
				return nil, err
			}
		}

		cs := &models.Changeset{Reset: true, Meta: models.BoardMeta{SelectedMonth: b.SelectedMonth}}
		cs.Metrics = metrics
		for _, d := range b.Days {
			day := models.NewDayEntry(d.Date)
			for slug, v := range d.Values {
				day.Values[normalizeSlug(slug)] = v
			}
			cs.Days = append(cs.Days, day)
		}
		return cs, nil
	})
}

// normalizeSlug lowercases a stored slug so lookups that ignore case agree with it.
func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// mutate runs build under the write lock. build validates against current state and
// returns what to write; a nil changeset means nothing changed and nobody is notified.
// The journal commit precedes the apply, so an error from either leaves state untouched.
func (s *Store) mutate(op string, build func(now time.Time) (*models.Changeset, error)) error {
	s.mu.Lock()

	now := s.now()
	cs, err := build(now)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	if cs == nil {
		s.mu.Unlock()
		return nil
	}

	if !cs.Reset && cs.Meta.SelectedMonth == "" {
		cs.Meta.SelectedMonth = s.selectedMonth
	}
	cs.Meta.UpdatedAt = now

	if err := s.journal.Commit(*cs); err != nil {
		s.mu.Unlock()
		s.logger.Error("journal commit failed", "op", op, "err", err)
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	s.applyLocked(*cs)
	listeners := make([]func(), len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
	}
	s.mu.Unlock()

	s.logger.Debug("board updated", "op", op, "metrics", len(cs.Metrics), "days", len(cs.Days))
	for _, fn := range listeners {
		fn()
	}
	return nil
}

func (s *Store) applyLocked(cs models.Changeset) {
	if cs.Reset {
		s.metrics = make(map[string]models.MetricDefinition)
		s.days = make(map[string]models.DayEntry)
	}
	for _, m := range cs.Metrics {
		s.metrics[m.ID] = m
	}
	for _, id := range cs.DeletedMetricIDs {
		delete(s.metrics, id)
	}
	for _, d := range cs.Days {
		s.days[d.Date] = d.Clone()
	}
	s.selectedMonth = cs.Meta.SelectedMonth
	s.updatedAt = cs.Meta.UpdatedAt
	s.snap = nil
}

// load installs b as the current state without journaling or notifying.
func (s *Store) load(b models.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = make(map[string]models.MetricDefinition, len(b.Metrics))
	for _, m := range b.Metrics {
		s.metrics[m.ID] = m
	}
	s.days = make(map[string]models.DayEntry, len(b.Days))
	for _, d := range b.Days {
		s.days[d.Date] = d.Clone()
	}
	s.selectedMonth = b.SelectedMonth
	s.updatedAt = b.UpdatedAt
	s.snap = nil
}

func (s *Store) sortedMetricsLocked() []models.MetricDefinition {
	out := make([]models.MetricDefinition, 0, len(s.metrics))
	for _, m := range s.metrics {
		out = append(out, m)
	}
	models.SortMetrics(out)
	return out
}

func (s *Store) sortedDaysLocked() []models.DayEntry {
	out := make([]models.DayEntry, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, d.Clone())
	}
	models.SortDays(out)
	return out
}
