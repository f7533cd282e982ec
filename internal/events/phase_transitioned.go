package events

import "time"

const PeriodPhaseTransitionedTopic = "pe.evaluation-period.lifecycle.v1"

type PeriodPhaseTransitionedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PeriodID   string    `json:"period_id"`
	FromPhase  string    `json:"from_phase"`
	ToPhase    string    `json:"to_phase"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
