// ABOUTME: YAML file backend: the whole board in one human-readable board.yaml.
// ABOUTME: Each commit rewrites the file through a temp file and rename.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/frame/internal/models"
)

// YAMLFile is the single-file board backend.
type YAMLFile struct {
	mu    sync.Mutex
	path  string
	board models.Board
}

// YAMLPath returns the board file inside dataDir.
func YAMLPath(dataDir string) string {
	return filepath.Join(dataDir, "board.yaml")
}

// OpenYAML reads path if it exists. A missing file is an empty board.
func OpenYAML(path string) (*YAMLFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	f := &YAMLFile{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.board); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range f.board.Days {
		if f.board.Days[i].Values == nil {
			f.board.Days[i].Values = map[string]models.Value{}
		}
	}
	models.SortMetrics(f.board.Metrics)
	models.SortDays(f.board.Days)
	return f, nil
}

func (f *YAMLFile) Name() string { return "yaml" }

// Path returns the board file path.
func (f *YAMLFile) Path() string { return f.path }

func (f *YAMLFile) Commit(cs models.Changeset) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.board.Clone()
	next.Apply(cs)

	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return err
	}
	f.board = next
	return nil
}

func (f *YAMLFile) Load() (models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.board.Clone(), nil
}

func (f *YAMLFile) Close() error { return nil }

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".board-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
