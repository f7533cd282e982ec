package evaluationperiod

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationPeriod struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"type:varchar(120);not null"`
	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"`

	Status       string `gorm:"type:varchar(20);not null;default:'WAITING';index:idx_evaluation_periods_status"`
	CurrentPhase string `gorm:"type:varchar(30);not null;default:'WAITING'"`

	EvaluationSetupDeadline *time.Time
	PerformanceDeadline     *time.Time
	SelfEvaluationDeadline  *time.Time
	PeerEvaluationDeadline  *time.Time

	MaxSelfEvaluationRate int        `gorm:"type:int;not null;default:100"`
	CompletedDate         *time.Time

	LockVersion int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_evaluation_periods_deleted_at"`

	GradeRanges []GradeRange `gorm:"foreignKey:EvaluationPeriodID"`
}

type GradeRange struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EvaluationPeriodID uuid.UUID `gorm:"type:uuid;not null;index:idx_grade_ranges_period"`
	Grade              string    `gorm:"type:varchar(10);not null"`
	MinRange           float64   `gorm:"type:numeric(6,2);not null"`
	MaxRange           float64   `gorm:"type:numeric(6,2);not null"`
	SortOrder          int       `gorm:"type:int;not null;default:0"`
}
