// GlamBook is a salon booking marketplace backend.
//
//	@title						GlamBook API
//	@version					1.0
//	@description				Salon directory, slot booking, reviews and per-booking chat.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/harshpalas/GlamBook/internal/api"
	"github.com/harshpalas/GlamBook/internal/core/service"
	"github.com/harshpalas/GlamBook/internal/infrastructure/config"
	mongodb "github.com/harshpalas/GlamBook/internal/infrastructure/db/mongo"
	redisdb "github.com/harshpalas/GlamBook/internal/infrastructure/db/redis"
	"github.com/harshpalas/GlamBook/internal/infrastructure/queue"
	"github.com/harshpalas/GlamBook/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	// Slot holds degrade to the unique index when Redis is down, so an
	// unreachable Redis is a warning at startup, not a fatal error.
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unreachable, slot holds disabled until it recovers")
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Booking status notifications (optional) ---
	var notifier service.StatusNotifier
	if cfg.Queue.AMQPURL != "" {
		n, err := queue.NewStatusNotifier(cfg.Queue.AMQPURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unreachable, status notifications disabled")
		} else {
			defer n.Close()
			notifier = n
		}
	}

	e := api.NewRouter(ctx, api.Deps{
		DB:            db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Notifier:      notifier,
		RatingWorkers: cfg.Queue.RatingWorkers,
		Logger:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
