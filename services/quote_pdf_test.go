package services

import (
	"bytes"
	"testing"
	"time"

	"suriparts-backend/models"

	"github.com/shopspring/decimal"
)

func TestQuotePDF(t *testing.T) {
	validUntil := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	quote := models.Quote{
		QuoteNumber: "QT-2026-001",
		Status:      models.QuoteStatusDraft,
		Subtotal:    decimal.RequireFromString("25000.00"),
		Tax:         decimal.Zero,
		Total:       decimal.RequireFromString("25000.00"),
		Notes:       "Full trace documentation included.",
		ValidUntil:  &validUntil,
		CreatedAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Items: []models.QuoteItem{
			{
				PartNumber:  "101-384100-1",
				Description: "Brake Assembly - Main Wheel",
				Condition:   models.ConditionNew,
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("12500.00"),
				TotalPrice:  decimal.RequireFromString("25000.00"),
			},
		},
	}
	client := models.Client{
		Name:    "Carlos Mendoza",
		Company: "Avianca Technical Services",
		Country: "Colombia",
	}

	data, err := QuotePDF(quote, client)
	if err != nil {
		t.Fatalf("QuotePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("QuotePDF returned empty document")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("QuotePDF output does not start with %%PDF header: %q", data[:8])
	}
}

func TestQuotePDF_NoItems(t *testing.T) {
	quote := models.Quote{
		QuoteNumber: "QT-2026-002",
		Subtotal:    decimal.Zero,
		Tax:         decimal.Zero,
		Total:       decimal.Zero,
		CreatedAt:   time.Now(),
	}

	data, err := QuotePDF(quote, models.Client{Company: "CONVIASA"})
	if err != nil {
		t.Fatalf("QuotePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("QuotePDF returned empty document")
	}
}
