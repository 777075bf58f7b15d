package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	APIBaseURL     string
	SocketURL      string
	DatabaseURL    string
	LogLevel       string
	SessionTimeout time.Duration
	RequestTimeout time.Duration
	AgentDelay     time.Duration
}

func Load() Config {
	return Config{
		Port:           envInt("AURATRIAGE_PORT", 8600),
		APIBaseURL:     envStr("AURATRIAGE_API_URL", "http://localhost:8600"),
		SocketURL:      envStr("AURATRIAGE_WS_URL", "ws://localhost:8600"),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		SessionTimeout: time.Duration(envInt("SESSION_TIMEOUT_MS", 120000)) * time.Millisecond,
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT_MS", 10000)) * time.Millisecond,
		AgentDelay:     time.Duration(envInt("AGENT_DELAY_MS", 800)) * time.Millisecond,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
