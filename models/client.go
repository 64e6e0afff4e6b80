package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name     string `gorm:"not null" json:"name"`
	Company  string `gorm:"index" json:"company"`
	Country  string `json:"country"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `gorm:"column:whatsapp" json:"whatsapp"`
	Notes    string `json:"notes"`

	Quotes []Quote `gorm:"foreignKey:ClientID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
