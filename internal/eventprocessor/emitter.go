// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

var errBufferFull = errors.New("event buffer full")

// DecisionPublisher publishes one event.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, event *DecisionEvent) error
}

// Emitter turns gate decisions into events and publishes them from a
// single background worker.
type Emitter struct {
	publisher DecisionPublisher
	topic     string
	events    chan *DecisionEvent
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEmitter starts an emitter. bufferSize <= 0 uses 1000; timeout <= 0
// uses 5s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEmitter(publisher DecisionPublisher, topic string, bufferSize int, timeout time.Duration, logger zerolog.Logger) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	e := &Emitter{
		publisher: publisher,
		topic:     topic,
		events:    make(chan *DecisionEvent, bufferSize),
		stop:      make(chan struct{}),
		timeout:   timeout,
		logger:    logger.With().Str("component", "events").Logger(),
		now:       time.Now,
	}

	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Emitter) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stop:
			for {
				select {
				case ev := <-e.events:
					e.publish(ev)
				default:
					return
				}
			}
		case ev := <-e.events:
			e.publish(ev)
		}
	}
}

func (e *Emitter) publish(ev *DecisionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.publisher.PublishDecision(ctx, ev); err != nil {
		e.logger.Warn().Err(err).Str("decision_id", ev.DecisionID).Msg("failed to publish decision event")
	}
}

// OnDecision queues an event for d. It never blocks.
func (e *Emitter) OnDecision(_ context.Context, req *models.DecisionRequest, d *models.Decision) {
	if d == nil {
		return
	}
	select {
	case <-e.stop:
		return
	default:
	}

	ev := NewDecisionEvent(req, d, e.now())
	select {
	case e.events <- ev:
	default:
		metrics.RecordEventPublish(e.topic, errBufferFull)
		e.logger.Warn().Str("decision_id", ev.DecisionID).Msg("event buffer full, dropping decision event")
	}
}

// Close drains queued events and stops the worker. Safe to call twice.
func (e *Emitter) Close() error {
	e.stopOnce.Do(func() { close(e.stop) })
	e.wg.Wait()
	return nil
}
