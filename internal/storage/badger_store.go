// internal/storage/badger_store.go
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("entity not found")
	ErrExists   = errors.New("entity already exists")
)

// Entity represents any storable entity with an ID
type Entity interface {
	GetID() string
}

// Index is a secondary key written alongside an entity. Lookups by
// (Name, Value) return the IDs of every entity created with it.
type Index struct {
	Name  string
	Value string
}

// BadgerStore provides generic storage operations
type BadgerStore struct {
	db     *badger.DB
	prefix string
}

func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{
		db:     db,
		prefix: prefix,
	}
}

func (s *BadgerStore) makeKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", s.prefix, id))
}

func (s *BadgerStore) indexPrefix(name, value string) []byte {
	return []byte(fmt.Sprintf("%s_%s:%s:", s.prefix, name, value))
}

func (s *BadgerStore) stripPrefix(key []byte) string {
	return strings.TrimPrefix(string(key), fmt.Sprintf("%s:", s.prefix))
}

// Create stores a new entity and its index entries in one transaction.
func (s *BadgerStore) Create(entity Entity, indexes ...Index) error {
	if entity.GetID() == "" {
		return fmt.Errorf("entity ID cannot be empty")
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshaling entity: %w", err)
	}

	key := s.makeKey(entity.GetID())
	return s.db.Update(func(txn *badger.Txn) error {
		// Check if key already exists
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrExists, entity.GetID())
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		for _, idx := range indexes {
			ikey := append(s.indexPrefix(idx.Name, idx.Value), entity.GetID()...)
			if err := txn.Set(ikey, nil); err != nil {
				return fmt.Errorf("writing index %s: %w", idx.Name, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) Get(id string, entity Entity) error {
	key := s.makeKey(id)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, entity)
		})
	})

	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Has reports whether an entity with id is stored.
func (s *BadgerStore) Has(id string) (bool, error) {
	key := s.makeKey(id)

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BadgerStore) Update(entity Entity) error {
	if entity.GetID() == "" {
		return fmt.Errorf("entity ID cannot be empty")
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshaling entity: %w", err)
	}

	key := s.makeKey(entity.GetID())
	return s.db.Update(func(txn *badger.Txn) error {
		// Check if exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, entity.GetID())
		} else if err != nil {
			return err
		}

		return txn.Set(key, data)
	})
}

// List decodes every entity under the store prefix into results, which
// must be a pointer to a slice. Entities come back in key order.
func (s *BadgerStore) List(results interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(s.prefix + ":")
		var values []json.RawMessage

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, val)
		}

		// Marshal collected values into final result
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}

		return json.Unmarshal(data, results)
	})

	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}
	return nil
}

// MatchPrefix returns the IDs that start with idPrefix, in key order.
func (s *BadgerStore) MatchPrefix(idPrefix string) ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := s.makeKey(idPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, s.stripPrefix(it.Item().Key()))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("matching prefix %q: %w", idPrefix, err)
	}
	return ids, nil
}

// Lookup returns the IDs indexed under (name, value).
func (s *BadgerStore) Lookup(name, value string) ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := s.indexPrefix(name, value)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", name, err)
	}
	return ids, nil
}
