// Package history persists finished decoding sessions in a local
// BadgerDB store.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"go.toneline.dev/toneline/internal/types"
)

// ErrNotFound is returned when a session ID has no record.
var ErrNotFound = errors.New("history: session not found")

const keyPrefix = "session/"

// Store holds session records in BadgerDB.
type Store struct {
	db *badger.DB
}

// Options configures a Store.
type Options struct {
	// Dir is the directory for the database files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs the store without disk persistence. Used in tests.
	InMemory bool
}

// Open creates or opens a session store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("history: Options.Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists a session record, overwriting any record with the same ID.
func (s *Store) Save(rec types.SessionRecord) error {
	if rec.ID == "" {
		return errors.New("history: record ID required")
	}

	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+rec.ID), val)
	})
}

// Get returns the record with the given session ID.
func (s *Store) Get(id string) (types.SessionRecord, error) {
	var rec types.SessionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return types.SessionRecord{}, fmt.Errorf("load session record: %w", err)
	}
	return rec, nil
}

// List returns all stored sessions, newest first.
func (s *Store) List() ([]types.SessionRecord, error) {
	var recs []types.SessionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec types.SessionRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
	return recs, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
