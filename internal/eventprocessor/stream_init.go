// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// StreamManager is the part of jetstream.JetStream used by DecisionStream.
type StreamManager interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// DecisionStream owns the JetStream stream that stores decision events.
// Publishing relies on it for deduplication by decision ID.
type DecisionStream struct {
	js  StreamManager
	cfg StreamConfig
}

// NewDecisionStream validates cfg and binds it to js.
func NewDecisionStream(js StreamManager, cfg StreamConfig) (*DecisionStream, error) {
	if js == nil {
		return nil, errors.New("decision stream: jetstream required")
	}
	if cfg.Name == "" || len(cfg.Subjects) == 0 {
		return nil, errors.New("decision stream: name and subjects required")
	}
	return &DecisionStream{js: js, cfg: cfg}, nil
}

// Name returns the stream name.
func (d *DecisionStream) Name() string {
	return d.cfg.Name
}

// JetStreamConfig is what Ensure applies. Old messages are discarded once
// any limit is hit.
func (d *DecisionStream) JetStreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       d.cfg.Name,
		Subjects:   d.cfg.Subjects,
		Retention:  jetstream.LimitsPolicy,
		Discard:    jetstream.DiscardOld,
		Storage:    jetstream.FileStorage,
		MaxAge:     d.cfg.MaxAge,
		MaxBytes:   d.cfg.MaxBytes,
		MaxMsgs:    d.cfg.MaxMsgs,
		Duplicates: d.cfg.DuplicateWindow,
		Replicas:   d.cfg.Replicas,
	}
}

// Ensure creates the stream or brings an existing one up to date. It is
// idempotent.
func (d *DecisionStream) Ensure(ctx context.Context) (jetstream.Stream, error) {
	stream, err := d.js.CreateOrUpdateStream(ctx, d.JetStreamConfig())
	if err != nil {
		return nil, fmt.Errorf("ensure stream %s: %w", d.cfg.Name, err)
	}
	return stream, nil
}

// Check returns an error when the stream cannot be looked up.
func (d *DecisionStream) Check(ctx context.Context) error {
	if _, err := d.js.Stream(ctx, d.cfg.Name); err != nil {
		return fmt.Errorf("stream %s: %w", d.cfg.Name, err)
	}
	return nil
}
