// services/quote_engine.go
package services

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"suriparts-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// trailingDigits matches the numeric suffix of a quote number.
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// NumberingYear returns the year component used in quote numbers. It can be
// pinned via QUOTE_NUMBER_YEAR (e.g. a fiscal-year label); otherwise the
// current year is used.
func NumberingYear(now time.Time) int {
	if env := os.Getenv("QUOTE_NUMBER_YEAR"); env != "" {
		if y, err := strconv.Atoi(env); err == nil {
			return y
		}
		log.Printf("quote numbering: ignoring invalid QUOTE_NUMBER_YEAR=%q", env)
	}
	return now.Year()
}

// FormatQuoteNumber renders a human-readable quote number, zero-padded to
// three digits. Sequences past 999 simply grow wider.
func FormatQuoteNumber(year, seq int) string {
	return fmt.Sprintf("QT-%d-%03d", year, seq)
}

// SequenceFromNumber extracts the trailing numeric suffix of a quote number.
// A number that does not end in digits yields 0, so numbering restarts at 1
// instead of propagating a parse failure; the unique index on quote_number is
// the backstop against a resulting collision.
func SequenceFromNumber(number string) int {
	m := trailingDigits.FindStringSubmatch(number)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// NextQuoteNumber issues the next quote number inside tx. The per-year counter
// row is bumped with UPDATE ... RETURNING, so two transactions creating quotes
// at the same time serialize on the row lock and get distinct numbers. On the
// first use of a year the counter is seeded from the newest existing quote
// number.
func NextQuoteNumber(tx *gorm.DB, now time.Time) (string, error) {
	year := NumberingYear(now)

	var seq int
	res := tx.Raw(
		`UPDATE quote_sequences SET last_value = last_value + 1 WHERE year = ? RETURNING last_value`,
		year,
	).Scan(&seq)
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		seed := 0
		var numbers []string
		if err := tx.Model(&models.Quote{}).
			Order("created_at DESC").
			Limit(1).
			Pluck("quote_number", &numbers).Error; err != nil {
			return "", err
		}
		if len(numbers) > 0 {
			seed = SequenceFromNumber(numbers[0])
			if seed == 0 {
				log.Printf("quote numbering: cannot parse sequence from %q, restarting at 1", numbers[0])
			}
		}

		// A concurrent first use of the same year lands on the conflict arm.
		if err := tx.Raw(`
			INSERT INTO quote_sequences (year, last_value) VALUES (?, ?)
			ON CONFLICT (year) DO UPDATE SET last_value = quote_sequences.last_value + 1
			RETURNING last_value`,
			year, seed+1,
		).Scan(&seq).Error; err != nil {
			return "", err
		}
	}

	return FormatQuoteNumber(year, seq), nil
}

// LineTotal computes quantity x unit price in decimal space, rounded to cents.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// QuoteTotals recomputes the aggregate fields from the item list. Aggregates
// are never taken from client input. Tax stays additive even though current
// business rules always pass zero.
func QuoteTotals(items []models.QuoteItem, tax decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	subtotal = subtotal.Round(2)
	total = subtotal.Add(tax).Round(2)
	return subtotal, total
}

// quoteTransitions is the allowed forward progression. Accepted and rejected
// are terminal; there is no undo, by business rule.
var quoteTransitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.QuoteStatusDraft: {models.QuoteStatusSent, models.QuoteStatusExpired},
	models.QuoteStatusSent:  {models.QuoteStatusAccepted, models.QuoteStatusRejected, models.QuoteStatusExpired},
}

// CanTransition reports whether a quote may move from one status to another.
// Staying on the same status is always allowed and is treated as a no-op by
// callers (no audit record).
func CanTransition(from, to models.QuoteStatus) bool {
	if from == to {
		return true
	}
	for _, next := range quoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DuplicationNotes builds the notes for a duplicated quote: a marker naming
// the source quote, followed by the original notes.
func DuplicationNotes(sourceNumber, originalNotes string) string {
	marker := fmt.Sprintf("Duplicated from %s.", sourceNumber)
	if originalNotes == "" {
		return marker
	}
	return marker + " " + originalNotes
}
