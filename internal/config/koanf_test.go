// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Strategy.Timeout != 200*time.Millisecond || !cfg.Strategy.V2Default {
		t.Errorf("Strategy = %+v, want v2 default with 200ms timeout", cfg.Strategy)
	}
	if cfg.Decision.Thresholds.Low != 0.3 || cfg.Decision.Exploration.Epsilon != 0.05 {
		t.Errorf("Decision = %+v", cfg.Decision)
	}
	if cfg.Catalog.ItemTTL != 60*time.Second || cfg.Catalog.AdvertiserTTL != 5*time.Minute {
		t.Errorf("Catalog TTLs = %v/%v, want 60s/5m", cfg.Catalog.ItemTTL, cfg.Catalog.AdvertiserTTL)
	}
	if cfg.History.Window != 10 || cfg.History.TTL != 24*time.Hour {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Translate.Enabled || cfg.Events.Enabled {
		t.Error("translation and events should be opt-in")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
strategy:
  rollout_percent: 25
  allow_list: [partner-a, partner-b]
  timeout: 150ms
catalog:
  source: memory
decision:
  keywords:
    high_intent: [cheapest]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, default should survive", cfg.Server.Host)
	}
	if cfg.Strategy.RolloutPercent != 25 || cfg.Strategy.Timeout != 150*time.Millisecond {
		t.Errorf("Strategy = %+v", cfg.Strategy)
	}
	if !reflect.DeepEqual(cfg.Strategy.AllowList, []string{"partner-a", "partner-b"}) {
		t.Errorf("AllowList = %v", cfg.Strategy.AllowList)
	}
	if !reflect.DeepEqual(cfg.Decision.Keywords.HighIntent, []string{"cheapest"}) {
		t.Errorf("Keywords.HighIntent = %v", cfg.Decision.Keywords.HighIntent)
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  port: 9090\ncatalog:\n  source: memory\n")

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("STRATEGY_ALLOW_LIST", "a, b,,c")
	t.Setenv("STRATEGY_KILL_SWITCH", "true")
	t.Setenv("HISTORY_TTL", "2h")
	t.Setenv("DECISION_EPSILON", "0.1")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Strategy.AllowList, []string{"a", "b", "c"}) {
		t.Errorf("AllowList = %v, want [a b c]", cfg.Strategy.AllowList)
	}
	if !cfg.Strategy.KillSwitch {
		t.Error("KillSwitch = false, want true")
	}
	if cfg.History.TTL != 2*time.Hour {
		t.Errorf("History.TTL = %v, want 2h", cfg.History.TTL)
	}
	if cfg.Decision.Exploration.Epsilon != 0.1 {
		t.Errorf("Epsilon = %v, want 0.1", cfg.Decision.Exploration.Epsilon)
	}
}

func TestLoadFile_InvalidConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "catalog:\n  source: memory\nstrategy:\n  rollout_percent: 150\n")

	_, err := LoadFile(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFile() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [unclosed\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() error = nil, want parse error")
	}
}

func TestFindConfigFile_EnvOverride(t *testing.T) {
	path := writeFile(t, "custom.yaml", "{}\n")
	t.Setenv(ConfigPathEnvVar, path)

	if got := ConfigFile(); got != path {
		t.Errorf("ConfigFile() = %q, want %q", got, path)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"STRATEGY_ROLLOUT_PERCENT", "strategy.rollout_percent"},
		{"REDIS_URL", "history.redis_url"},
		{"OPENAI_API_KEY", "translate.api_key"},
		{"DUCKDB_PATH", "decision_log.duckdb_path"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "ADMATCH_DOTENV_TEST=from-file\n")

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadDotEnv(missing) error = %v, want nil", err)
	}

	t.Setenv("ADMATCH_DOTENV_TEST", "")
	os.Unsetenv("ADMATCH_DOTENV_TEST")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("ADMATCH_DOTENV_TEST"); got != "from-file" {
		t.Errorf("ADMATCH_DOTENV_TEST = %q, want from-file", got)
	}
}

func TestWatchConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  port: 9090\n")

	changed := make(chan struct{}, 1)
	stop, err := WatchConfigFile(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchConfigFile() error = %v", err)
	}
	defer func() { _ = stop() }()

	if err := os.WriteFile(path, []byte("server:\n  port: 9091\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Error("callback not invoked after file change")
	}
}
