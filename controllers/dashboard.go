package controllers

import (
	"net/http"
	"time"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TopPart is a most-quoted-part aggregate row
type TopPart struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	TimesQuoted int64  `json:"times_quoted"`
	TotalQty    int64  `json:"total_qty"`
}

// GetDashboardOverview aggregates the headline numbers for the dashboard
func GetDashboardOverview(c *gin.Context) {
	now := time.Now()
	firstOfMonth := utils.BeginningOfMonth(now)

	// Pending quotes (draft + sent)
	var pendingQuotes int64
	config.DB.Model(&models.Quote{}).
		Where("status IN ?", []models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusSent}).
		Count(&pendingQuotes)

	// Quotes created this month
	var quotesThisMonth int64
	config.DB.Model(&models.Quote{}).Where("created_at >= ?", firstOfMonth).Count(&quotesThisMonth)

	// Accepted quotes and revenue this month
	var acceptedThisMonth struct {
		Count   int64
		Revenue decimal.Decimal
	}
	config.DB.Model(&models.Quote{}).
		Where("status = ? AND created_at >= ?", models.QuoteStatusAccepted, firstOfMonth).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Scan(&acceptedThisMonth)

	// Inventory size
	var inventory struct {
		Count    int64
		TotalQty int64
	}
	config.DB.Model(&models.Part{}).
		Select("COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS total_qty").
		Scan(&inventory)

	// Pending RFQs
	var pendingRFQs int64
	config.DB.Model(&models.RFQ{}).Where("status = ?", models.RFQStatusPending).Count(&pendingRFQs)

	// Most quoted parts
	var topParts []TopPart
	config.DB.Raw(`
		SELECT qi.part_number, MAX(qi.description) AS description,
		       COUNT(*) AS times_quoted, SUM(qi.quantity) AS total_qty
		FROM quote_items qi
		GROUP BY qi.part_number
		ORDER BY times_quoted DESC
		LIMIT 5
	`).Scan(&topParts)

	// Latest audit trail entries
	var recentActivity []models.ActivityLog
	config.DB.Order("created_at DESC").Limit(10).Find(&recentActivity)

	// Oldest drafts still waiting to be sent
	var unansweredQuotes []QuoteRow
	config.DB.Model(&models.Quote{}).
		Select("quotes.*, clients.name AS client_name, clients.company AS client_company, clients.email AS client_email").
		Joins("JOIN clients ON clients.id = quotes.client_id").
		Where("quotes.status = ?", models.QuoteStatusDraft).
		Order("quotes.created_at ASC").
		Limit(5).
		Scan(&unansweredQuotes)

	// Status breakdown
	type statusCount struct {
		Status models.QuoteStatus `json:"status"`
		Count  int64              `json:"count"`
	}
	var quotesByStatus []statusCount
	config.DB.Model(&models.Quote{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&quotesByStatus)

	c.JSON(http.StatusOK, gin.H{
		"pending_quotes":      pendingQuotes,
		"quotes_this_month":   quotesThisMonth,
		"accepted_this_month": acceptedThisMonth.Count,
		"monthly_revenue":     acceptedThisMonth.Revenue,
		"total_parts":         inventory.Count,
		"total_inventory":     inventory.TotalQty,
		"pending_rfqs":        pendingRFQs,
		"top_parts":           topParts,
		"recent_activity":     recentActivity,
		"unanswered_quotes":   unansweredQuotes,
		"quotes_by_status":    quotesByStatus,
	})
}
