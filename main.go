package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"member-services/config"
	httpLayer "member-services/http"
	"member-services/repository"
	"member-services/service"
)

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("member services stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	var carts, sessions repository.KeyValueStore
	if cfg.RedisAddr != "" {
		rdb := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
		}

		carts = repository.NewRedisStore(rdb, cfg.KeyPrefix, 0)
		sessions = repository.NewRedisStore(rdb, cfg.KeyPrefix+"session:", cfg.SessionTTL)
		logger.Info("using redis storage", zap.String("addr", cfg.RedisAddr))
	} else {
		carts = repository.NewMemoryStore(0)
		sessions = repository.NewMemoryStore(cfg.SessionTTL)
		logger.Info("using in-memory storage")
	}

	engine := service.NewAmortizationEngine()
	tenorService := service.NewTenorRecommendationService(engine, logger)
	orderClient := service.NewOrderClient(cfg.OrderAPIURL, cfg.OrderAPITimeout)
	checkoutService := service.NewCheckoutService(orderClient, logger)

	loanHandler := httpLayer.NewLoanHandler(engine, tenorService, logger)
	cartHandler := httpLayer.NewCartHandler(carts, sessions, checkoutService, logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpLayer.NewRouter(loanHandler, cartHandler, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OrderAPITimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("member services listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
