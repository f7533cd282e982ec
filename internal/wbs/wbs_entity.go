package wbs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WBS items and their per-period employee assignments are maintained by the
// project management module; this service only resolves them when scoping a
// bulk submission to one project.
type WbsItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_wbs_items_project"`
	Name      string    `gorm:"type:varchar(200);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_wbs_items_deleted_at"`
}

type WbsAssignment struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WbsItemID          uuid.UUID `gorm:"type:uuid;not null;index:idx_wbs_assignments_item"`
	EmployeeID         uuid.UUID `gorm:"type:uuid;not null;index:idx_wbs_assignments_employee"`
	EvaluationPeriodID uuid.UUID `gorm:"type:uuid;not null;index:idx_wbs_assignments_period"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_wbs_assignments_deleted_at"`

	WbsItem *WbsItem `gorm:"foreignKey:WbsItemID"`
}
