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

	"github.com/redis/go-redis/v9"

	"github.com/settleroom/settleroom/internal/auth"
	"github.com/settleroom/settleroom/internal/cache"
	"github.com/settleroom/settleroom/internal/config"
	"github.com/settleroom/settleroom/internal/notify"
	"github.com/settleroom/settleroom/internal/service"
	"github.com/settleroom/settleroom/internal/storage/sqlite"
	"github.com/settleroom/settleroom/pkg/logging"
)

const (
	balanceCacheTTL     = 10 * time.Minute
	notificationChannel = "settleroom:settlements"
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var (
		balanceCache *cache.Cache
		notifier     notify.Notifier = notify.LogNotifier{}
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("Redis connect failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		balanceCache = cache.New(client, "settleroom:", balanceCacheTTL)
		notifier = notify.NewRedisNotifier(client, notificationChannel)
		slog.Info("Redis connected", "url", cfg.RedisURL)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	deps := routerDeps{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		rooms:         service.NewRoomService(store, cfg.Tolerance),
		settlements:   service.NewSettlementService(store, notifier, cfg.Tolerance),
		events:        service.NewEventService(store, balanceCache, cfg.Tolerance),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(deps),
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
