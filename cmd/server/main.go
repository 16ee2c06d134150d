package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdwiki/internal/api"
	"github.com/dgallion1/mdwiki/internal/config"
	"github.com/dgallion1/mdwiki/internal/pipeline"
	"github.com/dgallion1/mdwiki/internal/render"
	"github.com/dgallion1/mdwiki/internal/stats"
	"github.com/dgallion1/mdwiki/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	docs := store.NewClient(cfg.StoreURL, cfg.StoreAPIKey)

	rec := stats.NewRecorder(cfg.StatsWindow)
	cache := render.NewCache(cfg.RenderCacheTTL, cfg.RenderCacheSize)
	renderer := render.New(render.Config{
		HighlightStyle: cfg.Render.HighlightStyle,
		EmbedBaseURL:   cfg.Render.EmbedBaseURL,
		CodeTitleSpace: cfg.Render.CodeTitleSpace,
		Sanitize:       cfg.Render.Sanitize,
	}, render.WithCache(cache), render.WithStats(rec))

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, docs, log)
	orch.Start(ctx)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := cache.Cleanup(); n > 0 {
					log.Debug("evicted render cache entries", "count", n)
				}
			}
		}
	}()

	// Initialize HTTP server.
	srv := api.NewServer(orch, docs, renderer, rec, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		cancel()
		docs.Close()
	}()

	log.Info("starting mdwiki",
		"port", cfg.Port,
		"highlight_style", cfg.Render.HighlightStyle,
		"sanitize", cfg.Render.Sanitize,
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
