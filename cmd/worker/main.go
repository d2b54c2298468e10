package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/scheduling-api/internal/config"
	"github.com/clinicore/scheduling-api/internal/email"
	"github.com/clinicore/scheduling-api/internal/repository/postgres"
	"github.com/clinicore/scheduling-api/pkg/logger"
	redisbroker "github.com/clinicore/scheduling-api/pkg/messaging/redis"
	"github.com/clinicore/scheduling-api/pkg/metrics"
	"github.com/clinicore/scheduling-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	lg := logger.NewLogger(nil)
	m := metrics.NewMetrics("clinicore", "scheduling_worker")

	db, err := postgres.NewDB(cfg.DatabaseConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	broker, err := redisbroker.NewRedisBroker(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.OutboxBatchSize,
		PollInterval: cfg.OutboxPollInterval,
		RetryDelay:   cfg.OutboxRetryDelay,
	}, lg, m)
	go processor.Start(ctx)

	// The reference notification dispatcher ships with the worker; it
	// only runs when SMTP is configured.
	if cfg.SMTPHost != "" && cfg.FrontDeskAddr != "" {
		emailSvc := email.NewSMTPService(email.Config{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			From:      cfg.EmailFrom,
			FrontDesk: cfg.FrontDeskAddr,
		})
		notifier := worker.NewNotifier(broker, emailSvc, lg)
		go func() {
			if err := notifier.Start(ctx); err != nil {
				lg.Error(err, "notification dispatcher stopped")
			}
		}()
	}

	// Periodic cleanup of delivered events.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := outboxRepo.DeleteProcessedBefore(ctx, time.Now().Add(-cfg.OutboxRetention))
				if err != nil {
					lg.Error(err, "failed to prune processed outbox events")
					continue
				}
				if deleted > 0 {
					lg.Info("pruned processed outbox events", "count", deleted)
				}
			}
		}
	}()

	log.Info().Msg("scheduling worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()
}
