// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package main

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/admatch/internal/config"
	"github.com/tomtom215/admatch/internal/eventprocessor"
	"github.com/tomtom215/admatch/internal/logging"
)

// EventComponents publishes decision events to NATS JetStream.
type EventComponents struct {
	conn      *natsgo.Conn
	stream    *eventprocessor.DecisionStream
	publisher *eventprocessor.Publisher
	Emitter   *eventprocessor.Emitter
}

// InitEvents connects to NATS, ensures the decision stream exists and
// starts the emitter. It returns nil, nil when events are disabled.
func InitEvents(ctx context.Context, cfg *config.EventsConfig) (*EventComponents, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Decision events disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	pubCfg := eventprocessor.DefaultPublisherConfig(cfg.URL)
	pubCfg.Topic = cfg.Topic
	pubCfg.BufferSize = cfg.BufferSize
	pubCfg.PublishTimeout = cfg.PublishTimeout

	nc, err := natsgo.Connect(cfg.URL,
		natsgo.Name("admatch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(pubCfg.MaxReconnects),
		natsgo.ReconnectWait(pubCfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(c *natsgo.Conn) {
			logging.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	ec := &EventComponents{conn: nc}

	js, err := jetstream.New(nc)
	if err != nil {
		ec.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streamCfg := eventprocessor.DefaultStreamConfig()
	streamCfg.Name = cfg.StreamName
	streamCfg.Subjects = cfg.StreamSubjects
	streamCfg.MaxAge = time.Duration(cfg.RetentionDays) * 24 * time.Hour
	streamCfg.DuplicateWindow = cfg.DuplicateWindow

	ec.stream, err = eventprocessor.NewDecisionStream(js, streamCfg)
	if err != nil {
		ec.Close()
		return nil, err
	}
	if _, err := ec.stream.Ensure(ctx); err != nil {
		ec.Close()
		return nil, err
	}

	wmPub, err := eventprocessor.NewNATSPublisher(pubCfg, eventprocessor.NewWatermillLogger(logging.Logger()))
	if err != nil {
		ec.Close()
		return nil, err
	}
	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig(), logging.Logger())
	ec.publisher = eventprocessor.NewPublisher(wmPub, cfg.Topic, breaker)
	ec.Emitter = eventprocessor.NewEmitter(ec.publisher, cfg.Topic, cfg.BufferSize, cfg.PublishTimeout, logging.Logger())

	logging.Info().
		Str("url", cfg.URL).
		Str("stream", streamCfg.Name).
		Str("topic", cfg.Topic).
		Msg("Decision events initialized")
	return ec, nil
}

// Healthy reports whether the decision stream is reachable.
func (e *EventComponents) Healthy(ctx context.Context) error {
	if !e.conn.IsConnected() {
		return fmt.Errorf("nats: %s", e.conn.Status())
	}
	return e.stream.Check(ctx)
}

// Close drains the emitter, then closes the publisher and the connection.
func (e *EventComponents) Close() {
	if e == nil {
		return
	}
	if e.Emitter != nil {
		if err := e.Emitter.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event emitter")
		}
	}
	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event publisher")
		}
	}
	if e.conn != nil {
		e.conn.Close()
	}
}
