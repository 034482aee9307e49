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

	redisv9 "github.com/redis/go-redis/v9"

	"contacts_backend/internal/app/di"
	"contacts_backend/internal/app/router"
	authadapters "contacts_backend/internal/feature/auth/adapters"
	authhandler "contacts_backend/internal/feature/auth/transport/handler"
	authusecase "contacts_backend/internal/feature/auth/usecase"
	"contacts_backend/internal/platform/config"
	"contacts_backend/internal/platform/db"
	"contacts_backend/internal/platform/http/handler"
	jwtmw "contacts_backend/internal/platform/jwt"
	"contacts_backend/internal/platform/metrics"
	"contacts_backend/internal/platform/password"
	infraredis "contacts_backend/internal/platform/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 設定
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if err := cfg.Validate(); err != nil {
		return err
	}

	// db
	gdb, err := db.OpenDB(ctx, cfg.DB)
	if err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// Metrics
	reg := metrics.NewRegistry()
	cacheMetrics := metrics.NewCacheMetrics(reg)

	// Platform
	codec, err := jwtmw.NewCodec(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return err
	}
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	identityCache := di.NewIdentityCache(rdb, cfg.Redis, cacheMetrics)
	mailer := di.NewMailer(cfg.Mail)

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, codec, hasher, identityCache, mailer, cfg.BaseURL)

	// Handler
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	r := router.NewRouter(router.Handlers{
		Health:  handler.NewHealthHandler(sqlDB),
		Auth:    authhandler.NewAuthHandler(authUC),
		Users:   authhandler.NewUserHandler(authUC),
		Metrics: metrics.Handler(reg),
	}, authUC, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if err := mailer.Wait(shutdownCtx); err != nil {
		slog.Warn("pending emails were not delivered", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
	return nil
}
