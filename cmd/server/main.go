package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/iffykid/Valentines2026/internal/config"
	"github.com/iffykid/Valentines2026/internal/handler/health"
	"github.com/iffykid/Valentines2026/internal/quiz"
	"github.com/iffykid/Valentines2026/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Quiz configuration ---
	loader := quiz.NewLoader(cfg.QuizConfig, &http.Client{Timeout: cfg.QuizConfigTimeout})
	if err := loader.Check(ctx); err != nil {
		// Not fatal: every new session reloads and reports the failure itself.
		logger.Warn("quiz configuration not loadable at startup", "source", loader.Source(), "error", err)
	} else {
		logger.Info("quiz configuration ok", "source", loader.Source())
	}

	// --- Sessions ---
	sessions := server.NewRegistry(logger, server.NewBroker(), cfg.SessionOptions(logger), cfg.FrameInterval)
	defer sessions.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, loader, sessions, cfg.SPADir, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			"quiz_config": loader,
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return sweep(gctx, logger, sessions, cfg.SessionIdleTimeout)
	})

	return g.Wait()
}

// sweep ends abandoned sessions until ctx is done.
func sweep(ctx context.Context, logger *slog.Logger, sessions *server.Registry, idle time.Duration) error {
	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := sessions.Sweep(idle); n > 0 {
				logger.Info("swept idle sessions", "removed", n, "remaining", sessions.Len())
			}
		}
	}
}
