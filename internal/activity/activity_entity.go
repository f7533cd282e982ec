package activity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID    string    `gorm:"type:varchar(64);index:idx_activity_logs_request"`
	ActorID      string    `gorm:"type:varchar(64);not null;index:idx_activity_logs_actor"`
	Action       string    `gorm:"type:varchar(80);not null"`
	ResourceType string    `gorm:"type:varchar(60);not null;index:idx_activity_logs_resource"`
	ResourceID   string    `gorm:"type:varchar(64);index:idx_activity_logs_resource"`
	Detail       string    `gorm:"type:text"`
	OccurredAt   time.Time `gorm:"not null"`

	CreatedAt time.Time
}
