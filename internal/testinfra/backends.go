// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

//go:build integration

package testinfra

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultMongoImage = "mongo:7"
	DefaultRedisImage = "redis:7-alpine"
	DefaultNATSImage  = "nats:2.10-alpine"
)

// MongoContainer is a running MongoDB instance.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// NewMongoContainer starts MongoDB and returns its connection URI.
func NewMongoContainer(ctx context.Context, opts ...Option) (*MongoContainer, error) {
	container, endpoint, err := startContainer(ctx, DefaultMongoImage, "27017", nil,
		wait.ForLog("Waiting for connections"), opts)
	if err != nil {
		return nil, err
	}
	return &MongoContainer{Container: container, URI: "mongodb://" + endpoint}, nil
}

// RedisContainer is a running Redis instance.
type RedisContainer struct {
	testcontainers.Container
	URL string
}

// NewRedisContainer starts Redis and returns a redis:// URL.
func NewRedisContainer(ctx context.Context, opts ...Option) (*RedisContainer, error) {
	container, endpoint, err := startContainer(ctx, DefaultRedisImage, "6379", nil,
		wait.ForLog("Ready to accept connections"), opts)
	if err != nil {
		return nil, err
	}
	return &RedisContainer{Container: container, URL: "redis://" + endpoint + "/0"}, nil
}

// NATSContainer is a running NATS server with JetStream enabled.
type NATSContainer struct {
	testcontainers.Container
	URL string
}

// NewNATSContainer starts NATS with JetStream and returns a nats:// URL.
func NewNATSContainer(ctx context.Context, opts ...Option) (*NATSContainer, error) {
	container, endpoint, err := startContainer(ctx, DefaultNATSImage, "4222", []string{"-js"},
		wait.ForLog("Server is ready"), opts)
	if err != nil {
		return nil, err
	}
	return &NATSContainer{Container: container, URL: "nats://" + endpoint}, nil
}
