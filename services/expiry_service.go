// services/expiry_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"suriparts-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type ExpiryService struct {
	db *gorm.DB
}

func NewExpiryService(db *gorm.DB) *ExpiryService {
	return &ExpiryService{db: db}
}

// StartScheduler runs the sweep once immediately, then daily just after
// midnight. Expiry is a sweep rather than a read-time derivation so every
// endpoint sees the same status and each expiry gets exactly one audit record.
func (s *ExpiryService) StartScheduler() {
	c := cron.New()

	c.AddFunc("10 0 * * *", func() {
		if _, err := s.SweepExpiredQuotes(); err != nil {
			log.Printf("expiry sweep failed: %v", err)
		}
	})

	c.Start()
	log.Println("Quote expiry scheduler started")

	if _, err := s.SweepExpiredQuotes(); err != nil {
		log.Printf("expiry sweep failed: %v", err)
	}
}

// SweepExpiredQuotes marks draft and sent quotes past their validity date as
// expired and writes one audit record per quote, all in a single transaction.
// Accepted and rejected quotes are terminal and never expire.
func (s *ExpiryService) SweepExpiredQuotes() (int, error) {
	now := time.Now()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var due []models.Quote
	if err := tx.
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusSent}, now).
		Find(&due).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	for _, q := range due {
		if err := tx.Model(&models.Quote{}).
			Where("id = ?", q.ID).
			Update("status", models.QuoteStatusExpired).Error; err != nil {
			tx.Rollback()
			return 0, err
		}

		entry := models.ActivityLog{
			EntityType:  "quote",
			EntityID:    q.ID,
			Action:      models.ActivityExpired,
			Description: fmt.Sprintf("Quote %s expired (valid until %s)", q.QuoteNumber, q.ValidUntil.Format("2006-01-02")),
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	if len(due) > 0 {
		log.Printf("expiry sweep: %d quote(s) marked expired", len(due))
	}
	return len(due), nil
}
