// Package cache provides a persistent revision cache backed by BadgerDB.
// Watch-style builds recompute the precache manifest on every rebuild; the
// cache lets the entry source skip rehashing assets whose name, size, and
// modification time are unchanged.
package cache

import (
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache is a revision cache implementation using BadgerDB
type BadgerCache struct {
	db *badger.DB
}

// Options contains options for creating a BadgerCache
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// NewBadgerCache creates a new BadgerDB revision cache
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = homeDir + "/.swinject/cache"
		}
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db}, nil
}

// Revision retrieves a cached revision. The second return is false on a
// miss or on any read failure; misses are never fatal, the entry source
// just rehashes.
func (c *BadgerCache) Revision(name string, size int64, modTime time.Time) (string, bool) {
	key := revisionKey(name, size, modTime)

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false
	}
	return string(value), true
}

// Store records a revision for later builds.
func (c *BadgerCache) Store(name string, size int64, modTime time.Time, revision string) error {
	key := revisionKey(name, size, modTime)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(revision))
	})
}

// Close releases the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
