package activity

import (
	"context"
	"encoding/json"
	"time"

	"go-peval/internal/events"
	"go-peval/internal/messaging/kafka"
	"go-peval/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder queues activity events for the outbox worker. Recording is
// observability, not correctness: every failure is logged and swallowed so
// the primary operation never aborts because of its audit trail.
type Recorder interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID, detail string)
}

type recorder struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewRecorder(outbox kafka.OutboxRepository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("activity.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.recorder")
	}
	return &recorder{outbox: outbox, logger: l}
}

func (r *recorder) Record(ctx context.Context, actorID, action, resourceType, resourceID, detail string) {
	if r.outbox == nil {
		return
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EvaluationActivityEvent{
		EventType:    "evaluation_activity",
		RequestID:    rid,
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		OccurredAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal activity event failed", zap.String("action", action), zap.Error(err))
		return
	}

	if err := r.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: resourceType,
		AggregateID:   resourceID,
		EventType:     event.EventType,
		Topic:         events.EvaluationActivityTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		r.logger.Error("queue activity event failed",
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
	}
}

// NopRecorder is used where no outbox is wired (tests, workers without kafka).
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string, string, string) {}
