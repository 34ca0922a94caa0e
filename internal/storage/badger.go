package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"mangatheque/pkg/models"
)

// BadgerSlot keeps the blob under one Badger key.
type BadgerSlot struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens (or creates) a Badger directory. An empty path opens an
// in-memory database.
func OpenBadger(path, key string) (*BadgerSlot, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerSlot{db: db, key: []byte(key)}, nil
}

func (s *BadgerSlot) Load(_ context.Context) ([]models.Series, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []models.Series{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return decode(blob)
}

func (s *BadgerSlot) Save(_ context.Context, list []models.Series) error {
	blob, err := encode(list)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, blob)
	}); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *BadgerSlot) Close() error {
	return s.db.Close()
}
