// Package badgerdb is the badger store backend.
package badgerdb

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/govm-net/riffs/store"
)

const defaultDir = "./riffs-badger"

func init() {
	if err := store.Register(store.BadgerBackend, func(params map[string]any) (store.Store, error) {
		if mem, _ := params["in_memory"].(bool); mem {
			return OpenInMemory()
		}
		return Open(store.PathParam(params, defaultDir))
	}); err != nil {
		panic(err)
	}
}

// Store wraps a badger database.
type Store struct {
	db *badger.DB
}

// Open opens the database in dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that never touches disk.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	return out, err
}

func (s *Store) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) Commit(b *store.Batch) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, op := range b.Ops() {
			var err error
			if op.Delete() {
				err = txn.Delete(op.Key)
			} else {
				err = txn.Set(op.Key, op.Value)
			}
			if err != nil {
				return fmt.Errorf("badger commit: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
