// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// WatchFunc starts watching path and calls onChange for every change.
// config.WatchConfigFile satisfies it.
type WatchFunc func(path string, onChange func()) (stop func() error, err error)

// WatcherService reloads state when a file changes. Reload errors are
// logged and the previous state stays in effect.
type WatcherService struct {
	name   string
	path   string
	watch  WatchFunc
	reload func() error
	logger zerolog.Logger
}

// NewWatcherService creates a watcher for path.
func NewWatcherService(name, path string, watch WatchFunc, reload func() error, logger zerolog.Logger) *WatcherService {
	return &WatcherService{
		name:   name,
		path:   path,
		watch:  watch,
		reload: reload,
		logger: logger.With().Str("service", name).Str("path", path).Logger(),
	}
}

// Serve implements suture.Service.
func (s *WatcherService) Serve(ctx context.Context) error {
	stop, err := s.watch(s.path, func() {
		if err := s.reload(); err != nil {
			s.logger.Error().Err(err).Msg("reload failed, keeping previous settings")
			return
		}
		s.logger.Info().Msg("reloaded after file change")
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	<-ctx.Done()
	if err := stop(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to stop watcher")
	}
	return ctx.Err()
}

func (s *WatcherService) String() string {
	return s.name
}
