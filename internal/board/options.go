// ABOUTME: Functional options for constructing a Store.
// ABOUTME: Clock, logger, journal, and restored state are all injected; there are no globals.
package board

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/frame/internal/models"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of "now". Statistics use its calendar date as today.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for mutation and journal events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJournal persists every mutation through j before it is applied.
func WithJournal(j Journal) Option {
	return func(s *Store) {
		if j != nil {
			s.journal = j
		}
	}
}

// WithState seeds the store with a previously loaded board without committing it.
func WithState(b models.Board) Option {
	return func(s *Store) {
		s.load(b)
	}
}
