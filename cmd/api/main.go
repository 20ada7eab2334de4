package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/embedding"
	"github.com/volleykb/assistant/backend/internal/handler"
	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/provider"
	answersvc "github.com/volleykb/assistant/backend/internal/service/answer"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(log.Config{})

	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file, continuing with system environment", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Provider misconfiguration is fatal at startup; the service does not
	// start without a working generation backend.
	generator, err := provider.New(ctx, cfg.Provider)
	if err != nil {
		logger.Error("failed to construct provider", "provider", cfg.Provider.Name, "error", err)
		os.Exit(1)
	}
	logger.Info("provider ready", "provider", generator.Name())

	embedder, err := embedding.NewClient(ctx, cfg.Embedding)
	if err != nil {
		logger.Error("failed to construct embedder", "error", err)
		os.Exit(1)
	}

	// The index itself loads lazily on first use; a missing artifact is a
	// degraded-answer condition, not a startup failure.
	loader := index.NewLoader(cfg.RAG.IndexFile, logger.With("component", "index"))

	sessions := sessionstore.NewManager(cfg.Redis, logger.With("component", "session"))
	pipeline := answersvc.NewService(cfg.RAG, loader, embedder, generator, logger.With("component", "answer"))

	router := handler.NewRouter(pipeline, sessions, loader, logger.With("component", "http"))

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger log.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("volleyball assistant backend listening", "addr", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
