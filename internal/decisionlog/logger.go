// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decisionlog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

// Config holds configuration for the decision logger.
type Config struct {
	// Enabled controls whether decisions are logged.
	Enabled bool `json:"enabled"`

	// RetentionDays is how long to keep entries.
	RetentionDays int `json:"retention_days"`

	// CleanupInterval is how often to run retention cleanup.
	CleanupInterval time.Duration `json:"cleanup_interval"`

	// BufferSize is the size of the async write buffer.
	BufferSize int `json:"buffer_size"`

	// WriteTimeout bounds a single store write.
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RetentionDays:   30,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
		WriteTimeout:    5 * time.Second,
	}
}

// Logger writes entries to a Store asynchronously.
type Logger struct {
	config   *Config
	store    Store
	entries  chan *Entry
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   zerolog.Logger
	now      func() time.Time
}

// NewLogger creates a decision logger and starts its writer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLogger(store Store, config *Config, logger zerolog.Logger) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}

	l := &Logger{
		config:   config,
		store:    store,
		entries:  make(chan *Entry, config.BufferSize),
		stopChan: make(chan struct{}),
		logger:   logger.With().Str("component", "decisionlog").Logger(),
		now:      time.Now,
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining entries
			for {
				select {
				case e := <-l.entries:
					l.write(e)
				default:
					return
				}
			}
		case e := <-l.entries:
			l.write(e)
		}
	}
}

func (l *Logger) write(e *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.WriteTimeout)
	defer cancel()

	if err := l.store.Save(ctx, e); err != nil {
		metrics.RecordDecisionLogWrite("error")
		l.logger.Error().Err(err).Str("decision_id", e.DecisionID).Msg("failed to save decision log entry")
		return
	}
	metrics.RecordDecisionLogWrite("success")
}

// Log queues an entry. It never blocks; a full buffer drops the entry.
func (l *Logger) Log(e *Entry) {
	if !l.config.Enabled || e == nil {
		return
	}

	select {
	case <-l.stopChan:
		return
	default:
	}

	select {
	case l.entries <- e:
	default:
		metrics.RecordDecisionLogWrite("dropped")
		l.logger.Warn().Str("decision_id", e.DecisionID).Msg("decision log buffer full, dropping entry")
	}
}

// OnDecision logs every decision the gate returns.
func (l *Logger) OnDecision(_ context.Context, req *models.DecisionRequest, d *models.Decision) {
	if d == nil {
		return
	}
	l.Log(NewEntry(req, d, l.now()))
}

// Close stops the writer after draining queued entries. Safe to call twice.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// Cleanup deletes entries older than the retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	cutoff := l.now().AddDate(0, 0, -l.config.RetentionDays)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		l.logger.Info().Int64("count", count).Time("older_than", cutoff).Msg("cleaned up old decision log entries")
	}
	return count, nil
}

// RunCleanup runs Cleanup every CleanupInterval until ctx is done. A
// non-positive retention disables cleanup.
func (l *Logger) RunCleanup(ctx context.Context) error {
	if l.config.RetentionDays <= 0 || l.config.CleanupInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := l.Cleanup(ctx); err != nil {
				l.logger.Error().Err(err).Msg("decision log cleanup error")
			}
		}
	}
}

// Query retrieves entries matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	return l.store.Query(ctx, filter)
}

// Stats aggregates logged decisions.
func (l *Logger) Stats(ctx context.Context) (*models.DecisionStats, error) {
	return l.store.Stats(ctx)
}
