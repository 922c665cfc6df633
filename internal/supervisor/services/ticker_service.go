// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickerService calls fn every interval. Errors from fn are logged and do
// not restart the service; a failed catalog refresh is retried on the next
// tick while the cache keeps serving.
type TickerService struct {
	name      string
	interval  time.Duration
	fn        func(ctx context.Context) error
	immediate bool
	logger    zerolog.Logger
}

// NewTickerService creates a periodic service. With immediate set, fn also
// runs once as soon as Serve starts.
func NewTickerService(name string, interval time.Duration, immediate bool, fn func(ctx context.Context) error, logger zerolog.Logger) *TickerService {
	return &TickerService{
		name:      name,
		interval:  interval,
		fn:        fn,
		immediate: immediate,
		logger:    logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service. A non-positive interval idles until
// ctx is done.
func (s *TickerService) Serve(ctx context.Context) error {
	if s.immediate {
		s.run(ctx)
	}
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *TickerService) run(ctx context.Context) {
	start := time.Now()
	if err := s.fn(ctx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("periodic task failed")
		}
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task completed")
}

func (s *TickerService) String() string {
	return s.name
}
