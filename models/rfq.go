package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RFQ statuses
const (
	RFQStatusPending   = "pending"
	RFQStatusSent      = "sent"
	RFQStatusAnswered  = "answered"
	RFQStatusCancelled = "cancelled"
)

// RFQ is an outbound request for quote to a supplier. It has its own lifecycle,
// independent of client-facing quotes; quote_id only records which quote (if
// any) prompted the inquiry.
type RFQ struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	SupplierID uuid.UUID  `gorm:"type:uuid;index;not null" json:"supplier_id"`
	QuoteID    *uuid.UUID `gorm:"type:uuid" json:"quote_id"`

	PartNumber  string `gorm:"not null" json:"part_number"`
	Description string `json:"description"`
	Quantity    int    `gorm:"default:1" json:"quantity"`
	Urgency     string `gorm:"type:varchar(20);default:'normal'" json:"urgency"`
	Status      string `gorm:"type:varchar(20);default:'pending'" json:"status"`

	ResponsePrice *decimal.Decimal `gorm:"type:decimal(14,2)" json:"response_price"`
	ResponseNotes string           `json:"response_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RFQ) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
