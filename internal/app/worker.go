package app

import (
	"context"
	"os"
	"time"

	"go-peval/internal/activity"
	"go-peval/internal/evaluationperiod"
	"go-peval/internal/messaging/kafka"
	"go-peval/internal/messaging/kafka/producer"
	"go-peval/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker drives the background side of the module: it drains the
// transactional outbox to kafka and fires the hourly phase sweep. The sweep
// shares the singleflight-guarded service with the cron endpoint, so a
// scheduler hitting the HTTP trigger at the same time costs nothing extra.
func RunWorker(ctx context.Context, logger *zap.Logger) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_NAME", "peval"),
		envOr("DB_PORT", "5432"),
		envOr("DB_SSLMODE", "disable"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	writer, err := connection.ConnectKafkaWithRetry(envOr("KAFKA_BROKER", "localhost:9092"), 5)
	if err != nil {
		return err
	}
	defer writer.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	periodRepo := evaluationperiod.NewRepository(gormDB)
	periodService := evaluationperiod.NewServiceWithOutbox(sqlDB, periodRepo, outboxRepo, activity.NewRecorder(outboxRepo, logger), logger)

	go producer.ProcessOutboxEvents(ctx, outboxRepo, writer, logger, 3*time.Second)

	log := logger.Named("worker.phase_sweep")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// One sweep at startup so a restart never waits a full hour.
	if count, err := periodService.AutoPhaseTransition(ctx); err != nil {
		log.Error("startup phase sweep failed", zap.Error(err))
	} else {
		log.Info("startup phase sweep finished", zap.Int("transitioned", count))
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return nil
		case <-ticker.C:
			count, err := periodService.AutoPhaseTransition(ctx)
			if err != nil {
				log.Error("hourly phase sweep failed", zap.Error(err))
				continue
			}
			log.Info("hourly phase sweep finished", zap.Int("transitioned", count))
		}
	}
}
