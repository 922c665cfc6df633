// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/cache"
	"github.com/tomtom215/admatch/internal/models"
)

// countingSource wraps a MemorySource and counts fetches.
type countingSource struct {
	*MemorySource
	itemFetches atomic.Int32
	advFetches  atomic.Int32
	itemsErr    error
	advErr      error
}

func (c *countingSource) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	c.itemFetches.Add(1)
	if c.itemsErr != nil {
		return nil, c.itemsErr
	}
	return c.MemorySource.ActiveItems(ctx)
}

func (c *countingSource) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	c.advFetches.Add(1)
	if c.advErr != nil {
		return nil, c.advErr
	}
	return c.MemorySource.Advertiser(ctx, id)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sampleItem(id string, status models.ItemStatus) *models.Item {
	return &models.Item{
		ID:           id,
		AdvertiserID: "adv-1",
		Format:       models.FormatText,
		Title:        models.LocalizedText{"en": "Title " + id},
		Status:       status,
	}
}

func newTestService(t *testing.T, src Source, clock *testClock) *Service {
	t.Helper()
	svc := NewService(src, ServiceConfig{}, zerolog.Nop(), cache.WithClock(clock.Now))
	t.Cleanup(svc.Close)
	return svc
}

func TestService_ActiveItemsReadThrough(t *testing.T) {
	t.Parallel()

	src := &countingSource{MemorySource: NewMemorySource([]*models.Item{
		sampleItem("a", models.StatusActive),
		sampleItem("b", models.StatusPaused),
		sampleItem("c", models.StatusArchived),
		sampleItem("d", models.StatusActive),
	}, nil)}
	clock := &testClock{now: time.Now()}
	svc := newTestService(t, src, clock)

	items, err := svc.ActiveItems(context.Background())
	if err != nil {
		t.Fatalf("ActiveItems() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "d" {
		t.Errorf("ActiveItems() = %v, want [a d]", items)
	}

	if _, err := svc.ActiveItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := src.itemFetches.Load(); n != 1 {
		t.Errorf("fetches within TTL = %d, want 1", n)
	}

	clock.Advance(DefaultItemTTL + time.Second)
	if _, err := svc.ActiveItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := src.itemFetches.Load(); n != 2 {
		t.Errorf("fetches after expiry = %d, want 2", n)
	}

	svc.Invalidate()
	if _, err := svc.ActiveItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := src.itemFetches.Load(); n != 3 {
		t.Errorf("fetches after Invalidate = %d, want 3", n)
	}

	stats := svc.Stats()
	if stats.Items.Hits != 1 || stats.Source != "memory" {
		t.Errorf("Stats() = %+v, want 1 item hit from memory", stats)
	}
}

func TestService_FetchErrorPropagatesAndIsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	src := &countingSource{MemorySource: NewMemorySource([]*models.Item{sampleItem("a", models.StatusActive)}, nil), itemsErr: boom}
	svc := newTestService(t, src, &testClock{now: time.Now()})

	if _, err := svc.ActiveItems(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("ActiveItems() error = %v, want %v", err, boom)
	}

	src.itemsErr = nil
	items, err := svc.ActiveItems(context.Background())
	if err != nil || len(items) != 1 {
		t.Errorf("ActiveItems() after recovery = %v, %v", items, err)
	}
}

func TestService_Advertiser(t *testing.T) {
	t.Parallel()

	src := &countingSource{MemorySource: NewMemorySource(nil, []models.Advertiser{{ID: "adv-1", Name: "Acme"}})}
	clock := &testClock{now: time.Now()}
	svc := newTestService(t, src, clock)
	ctx := context.Background()

	a, err := svc.Advertiser(ctx, "adv-1")
	if err != nil || a == nil || a.Name != "Acme" {
		t.Fatalf("Advertiser(adv-1) = %v, %v", a, err)
	}
	if _, err := svc.Advertiser(ctx, "adv-1"); err != nil {
		t.Fatal(err)
	}
	if n := src.advFetches.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}

	svc.InvalidateAdvertiser("adv-1")
	if _, err := svc.Advertiser(ctx, "adv-1"); err != nil {
		t.Fatal(err)
	}
	if n := src.advFetches.Load(); n != 2 {
		t.Errorf("fetches after InvalidateAdvertiser = %d, want 2", n)
	}

	t.Run("unknown is nil without error", func(t *testing.T) {
		a, err := svc.Advertiser(ctx, "missing")
		if err != nil || a != nil {
			t.Errorf("Advertiser(missing) = %v, %v, want nil, nil", a, err)
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		src.advErr = errors.New("timeout")
		if _, err := svc.Advertiser(ctx, "other"); !errors.Is(err, src.advErr) {
			t.Errorf("Advertiser() error = %v, want %v", err, src.advErr)
		}
	})
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	mem := NewMemorySource([]*models.Item{sampleItem("a", models.StatusActive)}, nil)
	src := &countingSource{MemorySource: mem}
	svc := newTestService(t, src, &testClock{now: time.Now()})

	if _, err := svc.ActiveItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	mem.UpsertItem(sampleItem("b", models.StatusActive))

	n, err := svc.Refresh(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Refresh() = %d, %v, want 2", n, err)
	}
	items, _ := svc.ActiveItems(context.Background())
	if len(items) != 2 {
		t.Errorf("ActiveItems() after Refresh = %d items, want 2", len(items))
	}
}
