package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want :9090", cfg.MetricsAddr)
	}
	if cfg.FeedInterval != 1500*time.Millisecond {
		t.Errorf("FeedInterval = %s, want 1.5s", cfg.FeedInterval)
	}
	if cfg.MTMInterval != 1500*time.Millisecond {
		t.Errorf("MTMInterval = %s, want 1.5s", cfg.MTMInterval)
	}
	if cfg.FetchLatencyMin != 100*time.Millisecond || cfg.FetchLatencyMax != 300*time.Millisecond {
		t.Errorf("fetch latency = %s..%s, want 100ms..300ms", cfg.FetchLatencyMin, cfg.FetchLatencyMax)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("FEED_INTERVAL_MS", "500")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want :7070", cfg.ListenAddr)
	}
	if cfg.FeedInterval != 500*time.Millisecond {
		t.Errorf("FeedInterval = %s, want 500ms", cfg.FeedInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidMillisFallsBack(t *testing.T) {
	t.Setenv("MTM_INTERVAL_MS", "not-a-number")
	t.Setenv("FETCH_LATENCY_MIN_MS", "-50")

	cfg := Load()

	if cfg.MTMInterval != 1500*time.Millisecond {
		t.Errorf("MTMInterval = %s, want default 1.5s", cfg.MTMInterval)
	}
	if cfg.FetchLatencyMin != 100*time.Millisecond {
		t.Errorf("FetchLatencyMin = %s, want default 100ms", cfg.FetchLatencyMin)
	}
}
