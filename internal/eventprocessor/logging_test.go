// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWatermillLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.With(watermill.LogFields{"topic": "admatch.decisions"}).
		Error("publish failed", errors.New("boom"), watermill.LogFields{"attempt": 2})
	l.Info("connected", nil)
	l.Debug("debug", nil)
	l.Trace("trace", nil)

	out := buf.String()
	for _, want := range []string{
		`"component":"watermill"`,
		`"topic":"admatch.decisions"`,
		`"attempt":2`,
		`"error":"boom"`,
		`"message":"connected"`,
		`"level":"trace"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
