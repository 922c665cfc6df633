// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"
)

// encodeEvent is the wire form published to JetStream. Invalid events are
// rejected before they reach the broker.
func encodeEvent(event *DecisionEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decision event: %w", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode decision event %s: %w", event.DecisionID, err)
	}
	return payload, nil
}

// DecodeEvent parses a payload produced by the publisher. Consumers of the
// decisions stream use it.
func DecodeEvent(payload []byte) (*DecisionEvent, error) {
	event := new(DecisionEvent)
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("decode decision event: %w", err)
	}
	return event, nil
}
