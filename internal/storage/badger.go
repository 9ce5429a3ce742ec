// ABOUTME: Badger backend: an embedded LSM key-value store under the data directory.
// ABOUTME: Every changeset is one read-write transaction.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/frame/internal/models"
)

// Badger is the badger board backend.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens or creates a badger database in dir.
func OpenBadger(dir string) (*Badger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// OpenBadgerInMemory opens a badger database that never touches disk.
func OpenBadgerInMemory() (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// BadgerDir returns the badger directory inside dataDir.
func BadgerDir(dataDir string) string {
	return filepath.Join(dataDir, "badger")
}

func (b *Badger) Name() string { return "badger" }

func (b *Badger) Commit(cs models.Changeset) error {
	ops, err := changesetOps(cs)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if cs.Reset {
			if err := deletePrefixes(txn, kvPrefixes); err != nil {
				return err
			}
		}
		for _, op := range ops {
			if op.delete {
				if err := txn.Delete([]byte(op.key)); err != nil {
					return fmt.Errorf("delete %s: %w", op.key, err)
				}
				continue
			}
			if err := txn.Set([]byte(op.key), op.value); err != nil {
				return fmt.Errorf("set %s: %w", op.key, err)
			}
		}
		return nil
	})
}

func deletePrefixes(txn *badger.Txn, prefixes []string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false

	var keys [][]byte
	it := txn.NewIterator(opts)
	for _, p := range prefixes {
		prefix := []byte(p)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

func (b *Badger) Load() (models.Board, error) {
	var l boardLoader
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for _, p := range kvPrefixes {
			prefix := []byte(p)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				val, err := item.ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("read %s: %w", item.Key(), err)
				}
				if err := l.add(string(item.Key()), val); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.Board{}, err
	}
	return l.result(), nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
