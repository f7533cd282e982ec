package selfevaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WbsSelfEvaluation is created empty at WBS-assignment time and filled in by
// the employee before the submission pipeline advances it. Invariant:
// submitted_to_manager_at set implies submitted_to_evaluator_at set.
type WbsSelfEvaluation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;index:idx_self_evaluations_period_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_self_evaluations_period_employee"`
	WbsItemID  uuid.UUID `gorm:"type:uuid;not null"`

	Content           *string  `gorm:"type:text"`
	Score             *float64 `gorm:"type:numeric(6,2)"`
	PerformanceResult *string  `gorm:"type:text"`

	SubmittedToEvaluatorAt *time.Time
	SubmittedToManagerAt   *time.Time
	IsCompleted            bool `gorm:"not null;default:false"`
	CompletedAt            *time.Time

	LockVersion int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_self_evaluations_deleted_at"`
}

func (WbsSelfEvaluation) TableName() string {
	return "wbs_self_evaluations"
}
