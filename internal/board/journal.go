// ABOUTME: Journal is the persistence seam a Store commits every mutation through.
// ABOUTME: A commit happens before the in-memory apply, so a failed commit changes nothing.
package board

import "github.com/harperreed/frame/internal/models"

// Journal persists one mutation's Changeset atomically.
type Journal interface {
	Commit(cs models.Changeset) error
}

// JournalFunc adapts a function to the Journal interface.
type JournalFunc func(cs models.Changeset) error

// Commit calls f(cs).
func (f JournalFunc) Commit(cs models.Changeset) error {
	return f(cs)
}

type nopJournal struct{}

func (nopJournal) Commit(models.Changeset) error { return nil }
