// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

const badgerKeyPrefix = "exposure:"

// OpenBadger opens a Badger database at dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// BadgerStore keeps each window as one JSON value with an entry TTL.
type BadgerStore struct {
	db  *badger.DB
	cfg Config
	now func() time.Time
}

// NewBadgerStore creates a Badger-backed store. The store owns db and
// closes it on Close.
func NewBadgerStore(db *badger.DB, cfg Config) *BadgerStore {
	return &BadgerStore{db: db, cfg: cfg.withDefaults(), now: time.Now}
}

// Recent implements Store.
func (s *BadgerStore) Recent(_ context.Context, conversationID string) (models.Exposure, error) {
	var entries []entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = readEntries(txn, conversationID)
		return err
	})
	metrics.RecordHistoryOperation("badger", "recent", err)
	if err != nil {
		return emptyExposure(), fmt.Errorf("read exposure: %w", err)
	}
	return toExposure(entries), nil
}

// Record implements Store.
func (s *BadgerStore) Record(_ context.Context, conversationID, itemID, advertiserID string) error {
	if conversationID == "" {
		return ErrNoConversation
	}

	e := entry{ItemID: itemID, AdvertiserID: advertiserID, ShownAt: s.now().UTC()}
	err := s.db.Update(func(txn *badger.Txn) error {
		entries, err := readEntries(txn, conversationID)
		if err != nil {
			return err
		}

		data, err := json.Marshal(prepend(entries, e, s.cfg.Window))
		if err != nil {
			return fmt.Errorf("marshal exposure: %w", err)
		}
		return txn.SetEntry(badger.NewEntry([]byte(badgerKeyPrefix+conversationID), data).WithTTL(s.cfg.TTL))
	})
	metrics.RecordHistoryOperation("badger", "record", err)
	if err != nil {
		return fmt.Errorf("record exposure: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readEntries(txn *badger.Txn, conversationID string) ([]entry, error) {
	item, err := txn.Get([]byte(badgerKeyPrefix + conversationID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []entry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entries)
	})
	return entries, err
}
