// Package main is the entry point for the DevOverflow server.
//
// main only reads configuration, builds the logger and hands both to
// internal/server. The HTTP server and the signal handler run as actors in
// one oklog/run group: when either returns, the other is interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/run"

	"github.com/sakif/devoverflow/internal/config"
	"github.com/sakif/devoverflow/internal/logctx"
	"github.com/sakif/devoverflow/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("error loading config: %s", err)
	}

	level, _ := cfg.Level()
	logger := logctx.New(os.Stdout, cfg.LogFormat, level)
	slog.SetDefault(logger)

	if err := runServer(ctx, cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// ":memory:" has no directory to create.
	if dir := filepath.Dir(cfg.DBPath); cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	var g run.Group
	g.Add(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(downCtx); err != nil {
			logger.Error("error shutting down server", slog.String("error", err.Error()))
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Info("shutdown signal received", slog.String("signal", sigErr.Signal.String()))
		return nil
	}
	return err
}
