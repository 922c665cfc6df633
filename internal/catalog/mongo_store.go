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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/admatch/internal/models"
)

const (
	collectionItems       = "items"
	collectionAdvertisers = "advertisers"
)

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// MongoStore reads the catalog from MongoDB.
type MongoStore struct {
	client      *mongo.Client
	items       *mongo.Collection
	advertisers *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxConnIdleTime(30 * time.Second)
	if cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return NewMongoStoreFromClient(client, cfg.Database), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:      client,
		items:       db.Collection(collectionItems),
		advertisers: db.Collection(collectionAdvertisers),
	}
}

// Name implements Source.
func (s *MongoStore) Name() string { return "mongo" }

// EnsureIndexes creates the indexes used by ActiveItems.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "advertiser_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create item indexes: %w", err)
	}
	return nil
}

// ActiveItems implements Source. Items are ordered by id.
func (s *MongoStore) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.items.Find(ctx, bson.M{"status": models.StatusActive}, opts)
	if err != nil {
		return nil, fmt.Errorf("find active items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// Advertiser implements Source.
func (s *MongoStore) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	var a models.Advertiser
	err := s.advertisers.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find advertiser %s: %w", id, err)
	}
	return &a, nil
}

// UpsertItem validates and stores an item.
func (s *MongoStore) UpsertItem(ctx context.Context, item *models.Item) error {
	if err := ValidateItem(item); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.items.ReplaceOne(ctx, bson.M{"_id": item.ID}, item, opts); err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// UpsertAdvertiser stores an advertiser.
func (s *MongoStore) UpsertAdvertiser(ctx context.Context, a *models.Advertiser) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.advertisers.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, opts); err != nil {
		return fmt.Errorf("upsert advertiser %s: %w", a.ID, err)
	}
	return nil
}

// SetStatus changes an item's lifecycle status.
func (s *MongoStore) SetStatus(ctx context.Context, itemID string, status models.ItemStatus) error {
	res, err := s.items.UpdateByID(ctx, itemID, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update item %s: %w", itemID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping implements Source.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
