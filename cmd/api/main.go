package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/rooterworks/rmetrack/internal/audit"
	auditStore "github.com/rooterworks/rmetrack/internal/audit/store"
	"github.com/rooterworks/rmetrack/internal/backend"
	"github.com/rooterworks/rmetrack/internal/config"
	"github.com/rooterworks/rmetrack/internal/database"
	"github.com/rooterworks/rmetrack/internal/history"
	rmetrackHttp "github.com/rooterworks/rmetrack/internal/http"
	historyHandler "github.com/rooterworks/rmetrack/internal/http/history"
	rmeHandler "github.com/rooterworks/rmetrack/internal/http/rme"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)
	cache := workorder.NewCache(client, cfg.Poll.Interval)

	var (
		recorder audit.Recorder = audit.NopRecorder{}
		trail    rmeHandler.Trail
	)

	if cfg.AuditEnabled() {
		db, err := database.New(cfg.AuditConnectionString())
		if err != nil {
			slog.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		store := auditStore.New(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			slog.Error("failed to prepare audit schema", "error", err)
			os.Exit(1)
		}

		recorder = store
		trail = store
	}

	var (
		rmeService     = rme.NewService(client, recorder)
		historyService = history.NewService(client, recorder)
	)

	var (
		rmeH     = rmeHandler.NewHandler(rmeService, cache, trail)
		historyH = historyHandler.NewHandler(historyService, cache)
	)

	router := rmetrackHttp.New(rmeH, historyH, cfg.Auth.JWTSecret, cfg.CORS.AllowedOrigins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cache.Run(ctx)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "backend", cfg.Backend.BaseURL)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
