// ABOUTME: Charm KV client wrapper for board storage.
// ABOUTME: Serializes access, refuses writes in read-only mode, and syncs to Charm Cloud after writes.
package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultDBName is the KV database name used when none is configured.
	DefaultDBName = "frame"
	// DefaultHost is the Charm server used when CHARM_HOST is unset.
	DefaultHost = "charm.2389.dev"
)

// ErrReadOnly is returned by writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Writer receives the puts and deletes of one Batch.
type Writer interface {
	Set(key string, data []byte) error
	Delete(key string) error
}

// Client wraps a Charm KV database.
type Client struct {
	kv *kv.KV
	mu sync.RWMutex
}

// EnsureHost points CHARM_HOST at DefaultHost unless it is already set.
func EnsureHost() error {
	if os.Getenv("CHARM_HOST") != "" {
		return nil
	}
	if err := os.Setenv("CHARM_HOST", DefaultHost); err != nil {
		return fmt.Errorf("set charm host: %w", err)
	}
	return nil
}

// Open opens the named KV database, pulling remote data unless read-only.
// CHARM_HOST defaults to DefaultHost.
func Open(name string) (*Client, error) {
	if name == "" {
		name = DefaultDBName
	}
	if err := EnsureHost(); err != nil {
		return nil, err
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Client{kv: db}
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

type kvWriter struct{ kv *kv.KV }

func (w kvWriter) Set(key string, data []byte) error { return w.kv.Set([]byte(key), data) }
func (w kvWriter) Delete(key string) error           { return w.kv.Delete([]byte(key)) }

// Batch runs fn with exclusive write access, then syncs once.
func (c *Client) Batch(fn func(w Writer) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := fn(kvWriter{kv: c.kv}); err != nil {
		return err
	}
	_ = c.kv.Sync()
	return nil
}

// Keys returns every key that starts with one of prefixes.
func (c *Client) Keys(prefixes ...string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keysLocked(prefixes)
}

func (c *Client) keysLocked(prefixes []string) ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, key := range keys {
		if hasAnyPrefix(key, prefixes) {
			out = append(out, string(key))
		}
	}
	return out, nil
}

// Each calls fn for every key matching one of prefixes with its value.
func (c *Client) Each(fn func(key string, value []byte) error, prefixes ...string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysLocked(prefixes)
	if err != nil {
		return err
	}
	for _, key := range keys {
		val, err := c.kv.Get([]byte(key))
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}

func hasAnyPrefix(key []byte, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if bytes.HasPrefix(key, []byte(p)) {
			return true
		}
	}
	return false
}
