// ABOUTME: Charm backend: the badger key layout stored in Charm Cloud KV with auto-sync.
// ABOUTME: Writes fail in read-only mode, when another process holds the local lock.
package storage

import (
	"github.com/harperreed/frame/internal/charm"
	"github.com/harperreed/frame/internal/models"
)

// Charm is the Charm Cloud board backend.
type Charm struct {
	client *charm.Client
}

// OpenCharm opens the named Charm KV database.
func OpenCharm(name string) (*Charm, error) {
	c, err := charm.Open(name)
	if err != nil {
		return nil, err
	}
	return &Charm{client: c}, nil
}

// Client exposes the underlying client for sync commands.
func (c *Charm) Client() *charm.Client { return c.client }

func (c *Charm) Name() string { return "charm" }

// Commit writes cs key by key and syncs once. Charm KV has no multi-key
// transaction, so a crash mid-commit can leave part of a changeset written.
func (c *Charm) Commit(cs models.Changeset) error {
	ops, err := changesetOps(cs)
	if err != nil {
		return err
	}

	var stale []string
	if cs.Reset {
		stale, err = c.client.Keys(kvPrefixes...)
		if err != nil {
			return err
		}
	}

	return c.client.Batch(func(w charm.Writer) error {
		for _, key := range stale {
			if err := w.Delete(key); err != nil {
				return err
			}
		}
		for _, op := range ops {
			if op.delete {
				if err := w.Delete(op.key); err != nil {
					return err
				}
				continue
			}
			if err := w.Set(op.key, op.value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Charm) Load() (models.Board, error) {
	var l boardLoader
	if err := c.client.Each(l.add, kvPrefixes...); err != nil {
		return models.Board{}, err
	}
	return l.result(), nil
}

// Sync pulls and pushes changes with Charm Cloud.
func (c *Charm) Sync() error {
	return c.client.Sync()
}

func (c *Charm) Close() error {
	return c.client.Close()
}
