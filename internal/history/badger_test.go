// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package history

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T, cfg Config) *BadgerStore {
	t.Helper()
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	s := NewBadgerStore(db, cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore(t *testing.T) {
	t.Parallel()

	exerciseStore(t, newTestBadgerStore(t, Config{Window: 3}), 3)
}

func TestBadgerStore_SetsEntryTTL(t *testing.T) {
	t.Parallel()

	s := newTestBadgerStore(t, Config{TTL: time.Hour})
	if err := s.Record(context.Background(), "conv", "item", "adv"); err != nil {
		t.Fatal(err)
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + "conv"))
		if err != nil {
			return err
		}
		expires := time.Unix(int64(item.ExpiresAt()), 0)
		if until := time.Until(expires); until <= 0 || until > time.Hour+time.Second {
			t.Errorf("entry expires in %v, want within 1h", until)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestBadgerStore_PersistsAcrossStores(t *testing.T) {
	t.Parallel()

	db, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := NewBadgerStore(db, Config{}).Record(ctx, "conv", "item", "adv"); err != nil {
		t.Fatal(err)
	}

	exp, err := NewBadgerStore(db, Config{}).Recent(ctx, "conv")
	if err != nil || len(exp.ItemIDs) != 1 || exp.ItemIDs[0] != "item" {
		t.Errorf("Recent() = %+v, %v", exp, err)
	}
}
