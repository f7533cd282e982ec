package consumer

import (
	"context"
	"encoding/json"

	"go-peval/internal/activity"
	"go-peval/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeEvaluationActivity(
	ctx context.Context,
	reader *kafkago.Reader,
	activityRepo activity.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.evaluation_activity")
	log.Info("evaluation activity consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("evaluation activity consumer stopped")
				return
			}
			log.Error("fetch evaluation activity message failed", zap.Error(err))
			continue
		}

		var event events.EvaluationActivityEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode evaluation activity event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entry := &activity.ActivityLog{
			RequestID:    event.RequestID,
			ActorID:      event.ActorID,
			Action:       event.Action,
			ResourceType: event.ResourceType,
			ResourceID:   event.ResourceID,
			Detail:       event.Detail,
			OccurredAt:   event.OccurredAt,
		}
		if err := activityRepo.Create(ctx, entry); err != nil {
			log.Error("persist activity log failed",
				zap.String("action", event.Action),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit evaluation activity message failed", zap.Error(err))
			continue
		}

		log.Info("activity log persisted",
			zap.String("action", event.Action),
			zap.String("resource_type", event.ResourceType),
			zap.String("resource_id", event.ResourceID),
		)
	}
}
