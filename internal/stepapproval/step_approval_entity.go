package stepapproval

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationStepApproval is created lazily on the first status change for its
// key. Every step has exactly one row per (period, employee) except
// SECONDARY, which carries one row per secondary evaluator.
type EvaluationStepApproval struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_step_approval_key"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_step_approval_key"`
	Step       string     `gorm:"type:varchar(20);not null;uniqueIndex:uniq_step_approval_key"`
	EvaluatorID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uniq_step_approval_key"`

	Status            string     `gorm:"type:varchar(30);not null;default:'PENDING'"`
	RevisionComment   *string    `gorm:"type:varchar(1000)"`
	RevisionRequestID *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy        *string    `gorm:"type:varchar(64)"`
	ApprovedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EvaluationStepApproval) TableName() string {
	return "evaluation_step_approvals"
}
