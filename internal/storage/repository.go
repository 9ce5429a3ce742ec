// ABOUTME: Backend interface every board storage implementation satisfies.
// ABOUTME: A backend loads the whole board once and then journals each committed changeset.
package storage

import (
	"github.com/harperreed/frame/internal/board"
	"github.com/harperreed/frame/internal/models"
)

// Backend persists a board. Commit must apply a changeset atomically where the
// underlying store allows it, and must handle Reset by dropping everything first.
type Backend interface {
	board.Journal

	// Load reads the full board. A fresh backend returns an empty board.
	Load() (models.Board, error)

	// Name identifies the backend in logs and status output.
	Name() string

	Close() error
}

// Syncer is implemented by backends that replicate to a remote service.
type Syncer interface {
	Sync() error
}

// OpenStore loads b and returns a store journaling into it.
func OpenStore(b Backend, opts ...board.Option) (*board.Store, error) {
	state, err := b.Load()
	if err != nil {
		return nil, err
	}
	opts = append([]board.Option{board.WithState(state), board.WithJournal(b)}, opts...)
	return board.New(opts...), nil
}
