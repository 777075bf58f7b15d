package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AbsSadhu/AuraTriage/internal/config"
	"github.com/AbsSadhu/AuraTriage/internal/simserver"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("swarmsim starting",
		"port", cfg.Port,
		"agent_delay", cfg.AgentDelay,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres when configured, seeded in-memory store otherwise. The demo
	// dataset makes the simulator usable with zero setup.
	var store simserver.SubjectStore
	if cfg.DatabaseURL != "" {
		pg, err := simserver.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		slog.Info("database connected")
	} else {
		store = simserver.SeededMemoryStore()
		slog.Info("using seeded in-memory store")
	}

	srv := simserver.NewServer(store, cfg.AgentDelay, cfg.Port)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("swarmsim ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("shutting down", "signal", sig)
	cancel()
	slog.Info("swarmsim stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
