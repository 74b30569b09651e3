package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/explainlike5/explainlike5-backend/internal/adapter/postgres"
	explanationrepo "github.com/explainlike5/explainlike5-backend/internal/adapter/postgres/explanation"
	topicrepo "github.com/explainlike5/explainlike5-backend/internal/adapter/postgres/topic"
	"github.com/explainlike5/explainlike5-backend/internal/config"
	"github.com/explainlike5/explainlike5-backend/internal/service/explanation"
	"github.com/explainlike5/explainlike5-backend/internal/transport/middleware"
	"github.com/explainlike5/explainlike5-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger and database pool, applies migrations, wires the service and
// HTTP handlers, and serves until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := runMigrations(ctx, cfg.Database); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", slog.String("dir", cfg.Database.MigrationsDir))
	}

	topics := topicrepo.New(pool)
	explanations := explanationrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	svc := explanation.NewService(logger, topics, explanations, txManager)

	explanationHandler := rest.NewExplanationHandler(svc, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /explanations", explanationHandler.Create)
	mux.HandleFunc("POST /explanations/{id}/regenerate", explanationHandler.Regenerate)
	mux.HandleFunc("GET /topics/{id}", explanationHandler.GetTopic)
	mux.HandleFunc("GET /history", explanationHandler.ListHistory)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")

	return nil
}
