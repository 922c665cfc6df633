// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

const redisKeyPrefix = "admatch:exposure:"

// ConnectRedis creates a client from a redis:// URL or a host:port address
// and checks it with PING.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps each window in a Redis list.
type RedisStore struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed store. The store owns client and
// closes it on Close.
func NewRedisStore(client *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{client: client, cfg: cfg.withDefaults(), now: time.Now}
}

// Recent implements Store.
func (s *RedisStore) Recent(ctx context.Context, conversationID string) (models.Exposure, error) {
	raw, err := s.client.LRange(ctx, redisKeyPrefix+conversationID, 0, int64(s.cfg.Window-1)).Result()
	metrics.RecordHistoryOperation("redis", "recent", err)
	if err != nil {
		return emptyExposure(), fmt.Errorf("read exposure: %w", err)
	}

	entries := make([]entry, 0, len(raw))
	for _, r := range raw {
		var e entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return toExposure(entries), nil
}

// Record implements Store.
func (s *RedisStore) Record(ctx context.Context, conversationID, itemID, advertiserID string) error {
	if conversationID == "" {
		return ErrNoConversation
	}

	data, err := json.Marshal(entry{ItemID: itemID, AdvertiserID: advertiserID, ShownAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal exposure: %w", err)
	}

	key := redisKeyPrefix + conversationID
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, data)
		p.LTrim(ctx, key, 0, int64(s.cfg.Window-1))
		p.Expire(ctx, key, s.cfg.TTL)
		return nil
	})
	metrics.RecordHistoryOperation("redis", "record", err)
	if err != nil {
		return fmt.Errorf("record exposure: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
