// ABOUTME: In-memory backend with no persistence.
// ABOUTME: Used by tests and by --ephemeral runs.
package storage

import (
	"sync"

	"github.com/harperreed/frame/internal/models"
)

// Memory keeps the board in process memory only.
type Memory struct {
	mu    sync.Mutex
	board models.Board
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Commit(cs models.Changeset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board.Apply(cs)
	return nil
}

func (m *Memory) Load() (models.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Clone(), nil
}

func (m *Memory) Close() error { return nil }
