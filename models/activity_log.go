package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog actions
const (
	ActivityCreated      = "created"
	ActivityStatusChange = "status_change"
	ActivityExpired      = "expired"
	ActivityDeleted      = "deleted"
)

// ActivityLog is the audit trail for quotes and RFQs. Rows are append-only.
type ActivityLog struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	EntityType  string    `gorm:"type:varchar(20);index;not null" json:"entity_type"`
	EntityID    uuid.UUID `gorm:"type:uuid;index;not null" json:"entity_id"`
	Action      string    `gorm:"type:varchar(30);not null" json:"action"`
	Description string    `json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
