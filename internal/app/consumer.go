package app

import (
	"context"
	"os"

	"go-peval/internal/activity"
	"go-peval/internal/events"
	"go-peval/internal/messaging/kafka/consumer"
	"go-peval/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunActivityConsumer persists emitted activity events into activity_logs.
func RunActivityConsumer(ctx context.Context, logger *zap.Logger) error {
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

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{envOr("KAFKA_BROKER", "localhost:9092")},
		GroupID: envOr("KAFKA_CONSUMER_GROUP", "peval-activity"),
		Topic:   events.EvaluationActivityTopic,
	})
	defer reader.Close()

	consumer.ConsumeEvaluationActivity(ctx, reader, activity.NewRepository(gormDB), logger)
	return nil
}
