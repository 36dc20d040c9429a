package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/config"
	"github.com/danieln3m0/POSLas4as/internal/infra"
	"github.com/danieln3m0/POSLas4as/internal/router"
	"github.com/danieln3m0/POSLas4as/internal/service"
	"github.com/danieln3m0/POSLas4as/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Domain events go to the Redis worker queue, and to Kafka when configured.
	publishers := service.Publishers{worker.NewDispatcher(rdb)}
	var kafkaPub *infra.KafkaPublisher
	if cfg.KafkaBrokers != "" {
		kafkaPub = infra.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
		log.Info().Str("topic", cfg.KafkaTopic).Msg("kafka event publishing enabled")
	}

	r, svcs := router.New(cfg, router.Deps{
		DB:        db,
		RDB:       rdb,
		Publisher: publishers,
		Locker:    infra.NewStockLocker(rdb, cfg.StockLockTTL),
		Kafka:     kafkaPub,
	})

	// Worker handlers are wired here (composition root) so the pool shares
	// the services built for the HTTP graph.
	events := worker.NewEventHandler(svcs.Products, worker.NewRedisAlertStore(rdb))
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, events)
	worker.StartReorderCron(ctx, worker.ReorderCronConfig{
		Inventory:         svcs.Inventory,
		Interval:          cfg.ReorderScanInterval,
		ExpiryWarningDays: cfg.ExpiryWarningDays,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("POS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
