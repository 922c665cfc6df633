// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package eventprocessor publishes decision events to NATS JetStream through
Watermill.

# Architecture

	strategy.Gate
	     |  OnDecision
	     v
	 Emitter (buffered channel, one worker)
	     |
	     v
	 Publisher (circuit breaker, Nats-Msg-Id = decision id)
	     |
	     v
	 Watermill NATS publisher --> JetStream stream ADMATCH_DECISIONS
	                               subject admatch.decisions

The Emitter never blocks the request path: when its buffer is full the event
is dropped and counted. The Publisher accepts any Watermill
message.Publisher, so tests run against the in-process gochannel pub/sub.

# Deduplication

Every message carries the decision id as Nats-Msg-Id. With TrackMsgID
enabled, JetStream discards duplicates inside the stream's duplicate window.

# Stream Provisioning

DecisionStream creates or updates the stream before publishing starts.
*/
package eventprocessor
