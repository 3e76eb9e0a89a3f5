package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopkit/shopkit/internal/httpserver"
	"github.com/shopkit/shopkit/internal/migrations"
	"github.com/shopkit/shopkit/internal/repository"
	"github.com/shopkit/shopkit/internal/service"
	"github.com/shopkit/shopkit/pkg/config"
	"github.com/shopkit/shopkit/pkg/logger"
	"github.com/shopkit/shopkit/pkg/postgres"
	"github.com/shopkit/shopkit/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "shopkit", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	pool := mustPool(ctx, cfg, log)
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		log.Error("migrations failed", slog.Any("err", err))
		os.Exit(1)
	}

	itemRepo := repository.NewItem(pool)
	cartRepo := repository.NewCart(pool)
	txManager := repository.NewTxManager(pool)
	cartSvc := service.NewCart(txManager, itemRepo, cartRepo)

	handler := httpserver.NewHandler(itemRepo, cartSvc, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http starting", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve error", slog.Any("err", err))
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn("graceful shutdown failed", slog.Any("err", err))
	}

	log.Info("bye")
}

func mustPool(ctx context.Context, cfg config.Config, log *slog.Logger) *pgxpool.Pool {
	pool, err := postgres.Open(ctx, postgres.Config{
		Host: cfg.PostgresHost,
		Port: cfg.PostgresPort,
		User: cfg.PostgresUser,
		Pass: cfg.PostgresPass,
		DB:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return pool
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := migrations.Files()
	if err != nil {
		return fmt.Errorf("migrations.Files: %w", err)
	}

	for _, name := range files {
		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}

	return nil
}
