// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

//go:build integration

package eventprocessor

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/testinfra"
)

func TestNATSPublisher_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	natsC, err := testinfra.NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("NewNATSContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, natsC.Container)

	nc, err := natsgo.Connect(natsC.URL)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("jetstream.New() error = %v", err)
	}

	streamCfg := DefaultStreamConfig()
	ds, err := NewDecisionStream(js, streamCfg)
	if err != nil {
		t.Fatalf("NewDecisionStream() error = %v", err)
	}
	stream, err := ds.Ensure(ctx)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if _, err := ds.Ensure(ctx); err != nil {
		t.Fatalf("Ensure() second call error = %v", err)
	}

	wmPub, err := NewNATSPublisher(DefaultPublisherConfig(natsC.URL), NewWatermillLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	pub := NewPublisher(wmPub, DefaultTopic, NewCircuitBreaker(DefaultCircuitBreakerConfig(), zerolog.Nop()))
	defer pub.Close() //nolint:errcheck

	ev := NewDecisionEvent(nil, shownDecision("dec-int-1"), time.Now())
	for i := 0; i < 2; i++ {
		if err := pub.PublishDecision(ctx, ev); err != nil {
			t.Fatalf("PublishDecision() error = %v", err)
		}
	}

	info, err := stream.Info(ctx)
	if err != nil {
		t.Fatalf("stream.Info() error = %v", err)
	}
	if info.State.Msgs != 1 {
		t.Errorf("stream messages = %d, want 1 (duplicate suppressed by Nats-Msg-Id)", info.State.Msgs)
	}
}
