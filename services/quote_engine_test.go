package services

import (
	"testing"
	"time"

	"suriparts-backend/models"

	"github.com/shopspring/decimal"
)

func TestFormatQuoteNumber(t *testing.T) {
	cases := []struct {
		year     int
		seq      int
		expected string
	}{
		{2026, 1, "QT-2026-001"},
		{2026, 42, "QT-2026-042"},
		{2026, 999, "QT-2026-999"},
		{2026, 1000, "QT-2026-1000"},
		{2027, 7, "QT-2027-007"},
	}
	for _, tc := range cases {
		if got := FormatQuoteNumber(tc.year, tc.seq); got != tc.expected {
			t.Errorf("FormatQuoteNumber(%d, %d) = %q, expected %q", tc.year, tc.seq, got, tc.expected)
		}
	}
}

func TestSequenceFromNumber(t *testing.T) {
	cases := []struct {
		number   string
		expected int
	}{
		{"QT-2026-001", 1},
		{"QT-2026-042", 42},
		{"QT-2026-1000", 1000},
		{"QT-2025-999", 999},
		// Malformed numbers fail closed to 0 so numbering restarts at 1
		{"QT-2026-", 0},
		{"DRAFT", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := SequenceFromNumber(tc.number); got != tc.expected {
			t.Errorf("SequenceFromNumber(%q) = %d, expected %d", tc.number, got, tc.expected)
		}
	}
}

func TestNumberingYear(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("defaults to current year", func(t *testing.T) {
		t.Setenv("QUOTE_NUMBER_YEAR", "")
		if got := NumberingYear(now); got != 2026 {
			t.Errorf("NumberingYear = %d, expected 2026", got)
		}
	})

	t.Run("pinned via env", func(t *testing.T) {
		t.Setenv("QUOTE_NUMBER_YEAR", "2025")
		if got := NumberingYear(now); got != 2025 {
			t.Errorf("NumberingYear = %d, expected 2025", got)
		}
	})

	t.Run("invalid env value ignored", func(t *testing.T) {
		t.Setenv("QUOTE_NUMBER_YEAR", "fiscal")
		if got := NumberingYear(now); got != 2026 {
			t.Errorf("NumberingYear = %d, expected 2026", got)
		}
	})
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		quantity  int
		unitPrice string
		expected  string
	}{
		{1, "25000.00", "25000.00"},
		{4, "890.00", "3560.00"},
		{200, "12.50", "2500.00"},
		// No binary floating point drift: 3 x 0.10 is exactly 0.30
		{3, "0.10", "0.30"},
		{7, "0.15", "1.05"},
		{1, "0", "0.00"},
	}
	for _, tc := range cases {
		price := decimal.RequireFromString(tc.unitPrice)
		got := LineTotal(tc.quantity, price)
		if got.StringFixed(2) != tc.expected {
			t.Errorf("LineTotal(%d, %s) = %s, expected %s", tc.quantity, tc.unitPrice, got.StringFixed(2), tc.expected)
		}
	}
}

func TestQuoteTotals(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("12500.00"), TotalPrice: decimal.RequireFromString("25000.00")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10"), TotalPrice: decimal.RequireFromString("0.30")},
	}

	subtotal, total := QuoteTotals(items, decimal.Zero)
	if subtotal.StringFixed(2) != "25000.30" {
		t.Errorf("subtotal = %s, expected 25000.30", subtotal.StringFixed(2))
	}
	if !total.Equal(subtotal) {
		t.Errorf("with zero tax, total = %s, expected %s", total, subtotal)
	}

	// Tax stays additive
	tax := decimal.RequireFromString("100.50")
	subtotal, total = QuoteTotals(items, tax)
	if total.StringFixed(2) != "25100.80" {
		t.Errorf("total = %s, expected 25100.80", total.StringFixed(2))
	}
	if !total.Equal(subtotal.Add(tax)) {
		t.Errorf("total %s != subtotal %s + tax %s", total, subtotal, tax)
	}
}

func TestQuoteTotals_Empty(t *testing.T) {
	subtotal, total := QuoteTotals(nil, decimal.Zero)
	if !subtotal.IsZero() || !total.IsZero() {
		t.Errorf("empty item list: subtotal=%s total=%s, expected both zero", subtotal, total)
	}
}

func TestQuoteTotals_StableAcrossRepeatedDuplication(t *testing.T) {
	// Duplication carries item prices verbatim; recomputing the totals from
	// the same items must yield the same value every time.
	items := []models.QuoteItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10"), TotalPrice: LineTotal(3, decimal.RequireFromString("0.10"))},
		{Quantity: 7, UnitPrice: decimal.RequireFromString("1234.57"), TotalPrice: LineTotal(7, decimal.RequireFromString("1234.57"))},
	}

	first, _ := QuoteTotals(items, decimal.Zero)
	for i := 0; i < 50; i++ {
		again, _ := QuoteTotals(items, decimal.Zero)
		if !again.Equal(first) {
			t.Fatalf("iteration %d: subtotal drifted from %s to %s", i, first, again)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    models.QuoteStatus
		to      models.QuoteStatus
		allowed bool
	}{
		{models.QuoteStatusDraft, models.QuoteStatusSent, true},
		{models.QuoteStatusDraft, models.QuoteStatusExpired, true},
		{models.QuoteStatusDraft, models.QuoteStatusAccepted, false},
		{models.QuoteStatusDraft, models.QuoteStatusRejected, false},
		{models.QuoteStatusSent, models.QuoteStatusAccepted, true},
		{models.QuoteStatusSent, models.QuoteStatusRejected, true},
		{models.QuoteStatusSent, models.QuoteStatusExpired, true},
		{models.QuoteStatusSent, models.QuoteStatusDraft, false},
		// Accepted and rejected are terminal, no undo
		{models.QuoteStatusAccepted, models.QuoteStatusDraft, false},
		{models.QuoteStatusAccepted, models.QuoteStatusSent, false},
		{models.QuoteStatusAccepted, models.QuoteStatusExpired, false},
		{models.QuoteStatusRejected, models.QuoteStatusSent, false},
		{models.QuoteStatusExpired, models.QuoteStatusSent, false},
		{models.QuoteStatusExpired, models.QuoteStatusDraft, false},
		// Same-status is a no-op, always allowed
		{models.QuoteStatusDraft, models.QuoteStatusDraft, true},
		{models.QuoteStatusAccepted, models.QuoteStatusAccepted, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, expected %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestDuplicationNotes(t *testing.T) {
	got := DuplicationNotes("QT-2026-001", "Payment net-30.")
	expected := "Duplicated from QT-2026-001. Payment net-30."
	if got != expected {
		t.Errorf("DuplicationNotes = %q, expected %q", got, expected)
	}

	got = DuplicationNotes("QT-2026-001", "")
	if got != "Duplicated from QT-2026-001." {
		t.Errorf("DuplicationNotes with empty notes = %q", got)
	}
}
