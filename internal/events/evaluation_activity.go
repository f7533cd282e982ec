package events

import "time"

const EvaluationActivityTopic = "pe.evaluation.activity.v1"

// EvaluationActivityEvent is the fire-and-forget audit trail record emitted
// by every mutating workflow operation.
type EvaluationActivityEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	ActorID      string    `json:"actor_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
