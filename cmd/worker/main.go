package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/mediplace/lab-api/internal/config"
	"github.com/mediplace/lab-api/internal/repository"
	"github.com/mediplace/lab-api/internal/repository/postgres"
	applogger "github.com/mediplace/lab-api/pkg/logger"
	"github.com/mediplace/lab-api/pkg/messaging/redis"
	"github.com/mediplace/lab-api/pkg/metrics"
	"github.com/mediplace/lab-api/pkg/worker"
)

// Outbox events older than this are purged once processed.
const processedRetention = 7 * 24 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := applogger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	zl := log.Logger
	broker, err := redis.NewRedisBroker(cfg.Redis.URL, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("lab_api_worker", prometheus.NewRegistry())
	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.MaxRetries,
		RetryDelay:    time.Second,
	}, appLogger, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go purgeLoop(ctx, outboxRepo, appLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker...")
	cancel()
}

// purgeLoop trims processed events past the retention window so the
// outbox table does not grow without bound.
func purgeLoop(ctx context.Context, repo repository.OutboxRepository, logger *applogger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteProcessedBefore(ctx, time.Now().Add(-processedRetention))
			if err != nil {
				logger.Error(err, "failed to purge processed events")
				continue
			}
			if deleted > 0 {
				logger.Info("purged processed events", "count", deleted)
			}
		}
	}
}
