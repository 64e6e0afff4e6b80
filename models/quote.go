package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteStatus is the closed set of quote lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// Valid reports whether s is one of the known lifecycle states.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

type Quote struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	QuoteNumber string      `gorm:"uniqueIndex;not null" json:"quote_number"`
	ClientID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"client_id"`
	Status      QuoteStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0.0" json:"tax"`
	Total    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`

	Notes      string     `json:"notes"`
	ValidUntil *time.Time `json:"valid_until"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

// QuoteItem is a line on a quote. The part fields are a frozen snapshot taken
// when the line was added; the referenced inventory part may change or be
// deleted without affecting the quote.
type QuoteItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;index;not null" json:"quote_id"`

	PartID      *uuid.UUID `gorm:"type:uuid" json:"part_id"`
	PartNumber  string     `gorm:"not null" json:"part_number"`
	Description string     `json:"description"`
	Condition   string     `gorm:"type:varchar(10)" json:"condition"`

	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
}

func (i *QuoteItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// QuoteSequence holds the last issued quote number per numbering year. The row
// is updated inside the same transaction that inserts the quote, so concurrent
// creations serialize on the row lock and never issue the same number.
type QuoteSequence struct {
	Year      int `gorm:"primary_key"`
	LastValue int `gorm:"not null"`
}
