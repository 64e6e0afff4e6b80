package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Condition codes for aviation parts grading
const (
	ConditionNew      = "NEW"
	ConditionOH       = "OH" // Overhauled
	ConditionSV       = "SV" // Serviceable
	ConditionAR       = "AR" // As-Removed
	ConditionRepaired = "REPAIRED"
)

// PartConditions lists every accepted condition code, used for input validation.
var PartConditions = []string{ConditionNew, ConditionOH, ConditionSV, ConditionAR, ConditionRepaired}

type Part struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	PartNumber   string `gorm:"index;not null" json:"part_number"`
	Description  string `gorm:"not null" json:"description"`
	Condition    string `gorm:"type:varchar(10);not null" json:"condition"`
	SerialNumber string `json:"serial_number"`

	Quantity      int             `gorm:"default:0" json:"quantity"`
	Location      string          `json:"location"`
	Price         decimal.Decimal `gorm:"type:decimal(14,2);default:0.0" json:"price"`
	Certification string          `json:"certification"`
	AircraftType  string          `json:"aircraft_type"`
	Category      string          `gorm:"index" json:"category"`
	Notes         string          `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Part) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ValidCondition reports whether code is one of the accepted condition codes.
func ValidCondition(code string) bool {
	for _, c := range PartConditions {
		if c == code {
			return true
		}
	}
	return false
}
