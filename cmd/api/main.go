package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/logger"
	"github.com/zizouhuweidi/trivia/internal/metrics"
	"github.com/zizouhuweidi/trivia/internal/ratelimit"
	"github.com/zizouhuweidi/trivia/internal/repository/gormstore"
	"github.com/zizouhuweidi/trivia/internal/repository/postgres"
	"github.com/zizouhuweidi/trivia/internal/server"
	"github.com/zizouhuweidi/trivia/internal/service"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, sync := logger.New(cfg.Log.Production)
	defer sync()

	if err := run(cfg, logg); err != nil {
		logg.Error("server stopped", slog.String("error", err.Error()))
		sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *slog.Logger) error {
	ctx := context.Background()

	// Initialize store
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Initialize rate limiter
	opts := server.Options{
		Logger:  logg,
		Metrics: metrics.New(),
	}
	if cfg.RateLimit.Enabled {
		redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		opts.Limiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	seed := cfg.Quiz.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	trivia := service.NewTriviaService(store, store, rand.New(rand.NewSource(seed)))

	e := server.New(trivia, opts)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		logg.Info("starting server",
			slog.String("addr", cfg.Server.Addr),
			slog.String("driver", cfg.Database.Driver),
		)
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logg.Info("shutting down the server")
	return e.Shutdown(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (domain.Store, io.Closer, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := gormstore.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Migrate {
			if err := store.Migrate(ctx); err != nil {
				store.Close()
				return nil, nil, err
			}
		}
		return store, store, nil

	default:
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return postgres.NewStore(pool), closerFunc(func() error {
			pool.Close()
			return nil
		}), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
