package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/voucher-server-go/internal/config"
	"github.com/openclaw/voucher-server-go/internal/database"
	"github.com/openclaw/voucher-server-go/internal/handler"
	"github.com/openclaw/voucher-server-go/internal/kvstore"
	"github.com/openclaw/voucher-server-go/internal/middleware"
	"github.com/openclaw/voucher-server-go/internal/redis"
	"github.com/openclaw/voucher-server-go/internal/repository"
	"github.com/openclaw/voucher-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	store, limiter, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store connected")

	voucherRepo := repository.NewVoucherRepository(store, config.StoreOpTimeout)
	partnerRepo := repository.NewPartnerRepository(store, config.StoreOpTimeout)

	voucherService := service.NewVoucherService(voucherRepo, partnerRepo, cfg.PinSalt, nil)
	partnerService := service.NewPartnerService(partnerRepo, cfg.PinSalt, nil)

	r := handler.NewRouter(handler.Deps{
		Vouchers:        voucherService,
		Partners:        partnerService,
		Store:           store,
		AllowedOrigins:  cfg.Origins(),
		AdminKey:        cfg.AdminKey,
		Limiter:         limiter,
		RateLimitPerMin: cfg.RateLimitPerMin,
		IsProduction:    cfg.IsProduction(),
		MaxBodyBytes:    config.MaxBodyBytes,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStore connects the configured backend. The returned limiter is nil
// unless the backend can share rate limit counters between replicas.
func openStore(cfg *config.Config) (kvstore.Store, middleware.Limiter, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(cfg.RedisURL, config.StorePingTimeout)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(client.Client), middleware.NewRedisRateLimiter(client.Client), nil

	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.StorePingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return kvstore.NewPostgresStore(db.DB), nil, nil

	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return kvstore.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
