// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/cache"
	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

const (
	// DefaultItemTTL is how long the active item snapshot is served from cache.
	DefaultItemTTL = 60 * time.Second
	// DefaultAdvertiserTTL is how long an advertiser record is cached.
	DefaultAdvertiserTTL = 5 * time.Minute

	activeItemsKey = "items:active"
)

// ServiceConfig configures cache lifetimes.
type ServiceConfig struct {
	ItemTTL       time.Duration
	AdvertiserTTL time.Duration
}

// Stats reports cache statistics per kind.
type Stats struct {
	Items       cache.Stats `json:"items"`
	Advertisers cache.Stats `json:"advertisers"`
	Source      string      `json:"source"`
}

// Service is a read-through TTL cache in front of a Source.
//
// A hit returns immediately; a miss or expiry fetches from the source and
// repopulates. Concurrent misses are not coalesced, so the same fetch may
// run more than once.
type Service struct {
	source      Source
	items       *cache.Cache
	advertisers *cache.Cache
	logger      zerolog.Logger
}

// NewService creates a catalog service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(source Source, cfg ServiceConfig, logger zerolog.Logger, opts ...cache.Option) *Service {
	if cfg.ItemTTL <= 0 {
		cfg.ItemTTL = DefaultItemTTL
	}
	if cfg.AdvertiserTTL <= 0 {
		cfg.AdvertiserTTL = DefaultAdvertiserTTL
	}
	return &Service{
		source:      source,
		items:       cache.New(cfg.ItemTTL, opts...),
		advertisers: cache.New(cfg.AdvertiserTTL, opts...),
		logger:      logger.With().Str("component", "catalog").Str("source", source.Name()).Logger(),
	}
}

// ActiveItems returns the cached active item snapshot. Fetch errors
// propagate and leave the cache empty.
func (s *Service) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	if v, ok := s.items.Get(activeItemsKey); ok {
		metrics.RecordCatalogCache("items", true)
		return v.([]*models.Item), nil
	}
	metrics.RecordCatalogCache("items", false)
	return s.fetchItems(ctx)
}

// Refresh fetches the active items and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	items, err := s.fetchItems(ctx)
	return len(items), err
}

func (s *Service) fetchItems(ctx context.Context) ([]*models.Item, error) {
	start := time.Now()
	items, err := s.source.ActiveItems(ctx)
	metrics.RecordCatalogFetch(s.source.Name(), "items", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.source.Name(), err)
	}

	s.items.Set(activeItemsKey, items)
	metrics.CatalogActiveItems.Set(float64(len(items)))
	s.logger.Debug().Int("items", len(items)).Dur("duration", time.Since(start)).Msg("active items loaded")
	return items, nil
}

// Advertiser returns the advertiser, or nil without error when unknown.
// Unknown advertisers are not cached.
func (s *Service) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	key := "advertiser:" + id
	if v, ok := s.advertisers.Get(key); ok {
		metrics.RecordCatalogCache("advertiser", true)
		return v.(*models.Advertiser), nil
	}
	metrics.RecordCatalogCache("advertiser", false)

	start := time.Now()
	a, err := s.source.Advertiser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordCatalogFetch(s.source.Name(), "advertiser", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordCatalogFetch(s.source.Name(), "advertiser", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.source.Name(), err)
	}

	s.advertisers.Set(key, a)
	return a, nil
}

// Invalidate drops every cached entry.
func (s *Service) Invalidate() {
	s.items.Clear()
	s.advertisers.Clear()
	s.logger.Info().Msg("catalog cache invalidated")
}

// InvalidateAdvertiser drops one cached advertiser.
func (s *Service) InvalidateAdvertiser(id string) {
	s.advertisers.Delete("advertiser:" + id)
}

// Stats returns cache statistics.
func (s *Service) Stats() Stats {
	return Stats{
		Items:       s.items.GetStats(),
		Advertisers: s.advertisers.GetStats(),
		Source:      s.source.Name(),
	}
}

// Ping checks the underlying source.
func (s *Service) Ping(ctx context.Context) error {
	return s.source.Ping(ctx)
}

// Close stops the cache sweepers.
func (s *Service) Close() {
	s.items.Close()
	s.advertisers.Close()
}
