// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// countingService blocks until canceled, failing its first failures runs.
type countingService struct {
	name     string
	failures int32
	runs     atomic.Int32
	exits    atomic.Int32
}

func newCountingService(name string, failures int) *countingService {
	return &countingService{name: name, failures: int32(failures)}
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.runs.Add(1)
	defer s.exits.Add(1)
	if n <= s.failures {
		return errors.New(s.name + ": scripted failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }
