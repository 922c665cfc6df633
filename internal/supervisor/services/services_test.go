// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTickerService(t *testing.T) {
	t.Run("runs immediately and on every tick", func(t *testing.T) {
		var calls atomic.Int32
		svc := NewTickerService("catalog-warmer", 20*time.Millisecond, true, func(context.Context) error {
			calls.Add(1)
			return nil
		}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want DeadlineExceeded", err)
		}
		if n := calls.Load(); n < 3 {
			t.Errorf("calls = %d, want >= 3", n)
		}
	})

	t.Run("errors do not stop the loop", func(t *testing.T) {
		var calls atomic.Int32
		svc := NewTickerService("catalog-warmer", 10*time.Millisecond, false, func(context.Context) error {
			calls.Add(1)
			return errors.New("mongo unavailable")
		}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		defer cancel()
		_ = svc.Serve(ctx)

		if n := calls.Load(); n < 2 {
			t.Errorf("calls = %d, want >= 2", n)
		}
	})

	t.Run("zero interval only runs the immediate call", func(t *testing.T) {
		var calls atomic.Int32
		svc := NewTickerService("warm-once", 0, true, func(context.Context) error {
			calls.Add(1)
			return nil
		}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_ = svc.Serve(ctx)

		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})
}

func TestRunnerService(t *testing.T) {
	tests := []struct {
		name     string
		run      func(ctx context.Context) error
		cancel   bool
		wantStop bool
	}{
		{
			name: "clean stop on cancellation",
			run: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			cancel:   true,
			wantStop: true,
		},
		{
			name: "early nil return is a failure",
			run:  func(context.Context) error { return nil },
		},
		{
			name: "error is wrapped",
			run:  func(context.Context) error { return errors.New("duckdb closed") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancel {
				cancel()
			} else {
				defer cancel()
			}

			err := NewRunnerService("decision-log-cleanup", tt.run).Serve(ctx)
			if tt.wantStop {
				if !errors.Is(err, context.Canceled) {
					t.Errorf("Serve() = %v, want context.Canceled", err)
				}
				return
			}
			if err == nil || errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want a failure", err)
			}
		})
	}
}

type fakeWatch struct {
	mu       sync.Mutex
	onChange func()
	stopped  bool
	err      error
}

func (f *fakeWatch) watch(_ string, onChange func()) (func() error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	return func() error {
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
		return nil
	}, nil
}

func (f *fakeWatch) fire() bool {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb()
	return true
}

func TestWatcherService(t *testing.T) {
	t.Run("reloads on change and stops on cancel", func(t *testing.T) {
		fw := &fakeWatch{}
		var reloads atomic.Int32
		svc := NewWatcherService("strategy-watcher", "/etc/admatch/config.yaml", fw.watch, func() error {
			if reloads.Add(1) == 2 {
				return errors.New("rollout_percent must be in [0,100]")
			}
			return nil
		}, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(time.Second)
		for !fw.fire() {
			if time.Now().After(deadline) {
				t.Fatal("watch never started")
			}
			time.Sleep(5 * time.Millisecond)
		}
		fw.fire()
		fw.fire()
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if reloads.Load() != 3 {
			t.Errorf("reloads = %d, want 3", reloads.Load())
		}
		fw.mu.Lock()
		defer fw.mu.Unlock()
		if !fw.stopped {
			t.Error("watch was not stopped")
		}
	})

	t.Run("watch failure is returned", func(t *testing.T) {
		fw := &fakeWatch{err: errors.New("no such file")}
		svc := NewWatcherService("strategy-watcher", "missing.yaml", fw.watch, func() error { return nil }, zerolog.Nop())
		if err := svc.Serve(context.Background()); !errors.Is(err, fw.err) {
			t.Errorf("Serve() = %v, want wrapped watch error", err)
		}
	})
}
