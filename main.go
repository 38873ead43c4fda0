package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"myday-qr/internal/auth"
	"myday-qr/internal/config"
	"myday-qr/internal/database"
	"myday-qr/internal/database/migrations"
	"myday-qr/internal/kafka"
	"myday-qr/internal/logger"
	"myday-qr/internal/server"
)

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Warn("REDIS", "REDIS_ADDR not set, running without caches and checkout lock")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis at %s unreachable, running without it: %v", cfg.Addr, err))
		client.Close()
		return nil
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Addr, client.Options().DB))
	return client
}

func setupKafka(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) kafka.Publisher {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, order events will not be published")
		return nil
	}
	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %s", strings.Join(cfg.Brokers, ",")))

	topics := kafka.NewTopics(cfg.TopicPrefix)
	if err := kafka.EnsureTopicsExist(ctx, cfg.Brokers, topics.All(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}
	return kafka.NewProducer(cfg.Brokers, log)
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()
	log := logger.NewLogger(cfg.Log.Dir)
	defer log.Close()

	log.Info("APP", "Starting myday-qr")
	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.NewRunner(bunDB, log).RunMigrations(); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}

	redisClient := connectRedis(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := setupKafka(ctx, cfg.Kafka, log)
	if publisher != nil {
		defer publisher.Close()
	}

	var resolver auth.TokenResolver
	if cfg.Auth.OIDCIssuer != "" {
		oidcResolver, err := auth.NewOIDCResolver(ctx, cfg.Auth.OIDCIssuer)
		if err != nil {
			log.Fatal("AUTH", err.Error())
		}
		resolver = oidcResolver
		log.Info("AUTH", fmt.Sprintf("Verifying tokens against %s", cfg.Auth.OIDCIssuer))
	} else if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := server.New(server.Options{
		Config:    cfg,
		DB:        bunDB,
		Redis:     redisClient,
		Publisher: publisher,
		Resolver:  resolver,
		Registry:  registry,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("APP", err.Error())
	}

	missing, err := app.OrderStore.ProbeOptionalColumns(ctx)
	if err != nil {
		log.Warn("DATABASE", fmt.Sprintf("Could not probe optional order columns: %v", err))
	} else if len(missing) > 0 {
		log.Warn("DATABASE", fmt.Sprintf("orders table lacks optional columns %v; they will not be written", missing))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("myday-qr running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Shutdown complete")
	}
}
