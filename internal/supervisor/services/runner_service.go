// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package services

import (
	"context"
	"errors"
	"fmt"
)

// RunnerService supervises a function that blocks until its context is
// done, such as decisionlog.Logger.RunCleanup.
type RunnerService struct {
	name string
	run  func(ctx context.Context) error
}

// NewRunnerService wraps run.
func NewRunnerService(name string, run func(ctx context.Context) error) *RunnerService {
	return &RunnerService{name: name, run: run}
}

// Serve implements suture.Service. An early return with a nil error is
// reported as a failure so that suture restarts the loop.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("returned before shutdown")
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

func (s *RunnerService) String() string {
	return s.name
}
