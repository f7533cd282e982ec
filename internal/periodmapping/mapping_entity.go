package periodmapping

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationPeriodEmployeeMapping is the per (period, employee) workflow row.
// The (period_id, employee_id) pair is unique: an employee joins a period at
// most once, and every editable/exclusion toggle addresses this single row.
type EvaluationPeriodEmployeeMapping struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_mapping_period_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_mapping_period_employee"`

	IsExcluded      bool       `gorm:"not null;default:false"`
	ExclusionReason *string    `gorm:"type:varchar(500)"`
	ExcludedBy      *string    `gorm:"type:varchar(64)"`
	ExcludedAt      *time.Time

	IsSelfEvaluationEditable      bool `gorm:"not null;default:true"`
	IsPrimaryEvaluationEditable   bool `gorm:"not null;default:true"`
	IsSecondaryEvaluationEditable bool `gorm:"not null;default:true"`

	UpdatedBy *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_mappings_deleted_at"`
}

func (EvaluationPeriodEmployeeMapping) TableName() string {
	return "evaluation_period_employee_mappings"
}
