// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/models"
)

type recordingPublisher struct {
	mu      sync.Mutex
	events  []*DecisionEvent
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *recordingPublisher) PublishDecision(_ context.Context, ev *DecisionEvent) error {
	if r.started != nil {
		r.once.Do(func() { close(r.started) })
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestEmitter_PublishesAndDrains(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	e := NewEmitter(pub, DefaultTopic, 0, 0, zerolog.Nop())

	for i := 0; i < 5; i++ {
		e.OnDecision(context.Background(), &models.DecisionRequest{CallerID: "c"}, shownDecision("d"))
	}
	e.OnDecision(context.Background(), nil, nil)

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if pub.count() != 5 {
		t.Errorf("published = %d, want 5", pub.count())
	}
	_ = e.Close()

	e.OnDecision(context.Background(), nil, shownDecision("late"))
	if pub.count() != 5 {
		t.Errorf("published after Close = %d, want 5", pub.count())
	}
}

func TestEmitter_DropsWhenFull(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{started: make(chan struct{}), release: make(chan struct{})}
	e := NewEmitter(pub, DefaultTopic, 1, time.Second, zerolog.Nop())
	ctx := context.Background()

	e.OnDecision(ctx, nil, shownDecision("1"))
	<-pub.started
	e.OnDecision(ctx, nil, shownDecision("2"))
	e.OnDecision(ctx, nil, shownDecision("3"))

	close(pub.release)
	_ = e.Close()

	if pub.count() != 2 {
		t.Errorf("published = %d, want 2 (third dropped)", pub.count())
	}
}
