package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8600 {
		t.Errorf("expected default port 8600, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8600" {
		t.Errorf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.SocketURL != "ws://localhost:8600" {
		t.Errorf("unexpected socket URL: %s", cfg.SocketURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.SessionTimeout != 2*time.Minute {
		t.Errorf("expected 2m session timeout, got %s", cfg.SessionTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AURATRIAGE_PORT", "9100")
	t.Setenv("AURATRIAGE_WS_URL", "ws://sim:9100")
	t.Setenv("SESSION_TIMEOUT_MS", "5000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Port)
	}
	if cfg.SocketURL != "ws://sim:9100" {
		t.Errorf("unexpected socket URL: %s", cfg.SocketURL)
	}
	if cfg.SessionTimeout != 5*time.Second {
		t.Errorf("expected 5s session timeout, got %s", cfg.SessionTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("AURATRIAGE_PORT", "not-a-number")

	cfg := Load()
	if cfg.Port != 8600 {
		t.Errorf("expected fallback port 8600, got %d", cfg.Port)
	}
}
