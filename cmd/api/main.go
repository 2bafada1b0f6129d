package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/athaapa/clamp/internal/config"
	"github.com/athaapa/clamp/internal/http"
	"github.com/athaapa/clamp/internal/metrics"
	"github.com/athaapa/clamp/internal/service"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API exposes commit, history, status and rollback over versioned
// document groups stored in a vector database.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Clamp API
//   description: |
//     Git-like version control for vector database collections.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	commitLog, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open commit log: %v", err)
	}
	defer func() {
		_ = commitLog.Close()
	}()
	slog.Info("Commit log initialized", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	if err := vectorStore.WaitHealthy(ctx, 30*time.Second); err != nil {
		log.Fatalf("Qdrant is not reachable at %s: %v", cfg.QdrantURL, err)
	}

	if cfg.QdrantVectorSize > 0 {
		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := service.NewEngine(commitLog, vectorStore,
		service.WithLogger(logger),
		service.WithMetrics(metrics.NewMetrics(registry)),
		service.WithHistoryLimit(cfg.HistoryLimit),
	)

	router := http.NewRouter(&http.Deps{
		VersionControl:    engine,
		Health:            vectorStore,
		DefaultCollection: cfg.QdrantCollection,
		Logger:            logger,
		Gatherer:          registry,
	})

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr, "collection", cfg.QdrantCollection)
	if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
