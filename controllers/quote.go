// controllers/quote.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/services"
	"suriparts-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier, when set, is told about quotes transitioning to sent.
var Notifier *services.NotifyService

// QuoteItemInput defines the structure for a quote line item. The part fields
// are snapshotted onto the item as-is; part_id is informational only.
type QuoteItemInput struct {
	PartID      *uuid.UUID      `json:"part_id"`
	PartNumber  string          `json:"part_number" binding:"required"`
	Description string          `json:"description"`
	Condition   string          `json:"condition"`
	Quantity    *int            `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateQuoteInput defines the expected JSON structure for creating a quote
type CreateQuoteInput struct {
	ClientID   uuid.UUID        `json:"client_id" binding:"required"`
	Notes      string           `json:"notes"`
	ValidUntil *time.Time       `json:"valid_until"`
	Items      []QuoteItemInput `json:"items"`
}

// UpdateQuoteInput defines the expected JSON structure for updating a quote
type UpdateQuoteInput struct {
	ClientID   *uuid.UUID          `json:"client_id"`
	Status     *models.QuoteStatus `json:"status"`
	Notes      *string             `json:"notes"`
	ValidUntil *time.Time          `json:"valid_until"`
	Items      *[]QuoteItemInput   `json:"items"`
}

// QuoteRow is a quote with the joined client summary columns, as returned by
// the list endpoint.
type QuoteRow struct {
	ID          uuid.UUID          `json:"id"`
	QuoteNumber string             `json:"quote_number"`
	ClientID    uuid.UUID          `json:"client_id"`
	Status      models.QuoteStatus `json:"status"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Notes       string             `json:"notes"`
	ValidUntil  *time.Time         `json:"valid_until"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	ClientName    string `json:"client_name"`
	ClientCompany string `json:"client_company"`
	ClientEmail   string `json:"client_email"`
}

// QuoteDetail adds the full client contact block and the item list.
type QuoteDetail struct {
	QuoteRow
	ClientPhone    string `json:"client_phone"`
	ClientWhatsApp string `gorm:"column:client_whatsapp" json:"client_whatsapp"`
	ClientCountry  string `json:"client_country"`

	Items []models.QuoteItem `gorm:"-" json:"items"`
}

// buildQuoteItems validates line inputs and prices them. Quantity defaults to
// 1 when absent; an explicit non-positive quantity or a negative unit price is
// rejected.
func buildQuoteItems(inputs []QuoteItemInput) ([]models.QuoteItem, error) {
	var items []models.QuoteItem
	for i, in := range inputs {
		quantity := 1
		if in.Quantity != nil {
			if *in.Quantity < 1 {
				return nil, fmt.Errorf("item %d: quantity must be at least 1", i+1)
			}
			quantity = *in.Quantity
		}
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("item %d: unit price cannot be negative", i+1)
		}
		if in.Condition != "" && !models.ValidCondition(in.Condition) {
			return nil, fmt.Errorf("item %d: unknown condition %q", i+1, in.Condition)
		}

		unitPrice := in.UnitPrice.Round(2)
		items = append(items, models.QuoteItem{
			PartID:      in.PartID,
			PartNumber:  in.PartNumber,
			Description: in.Description,
			Condition:   in.Condition,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  services.LineTotal(quantity, unitPrice),
		})
	}
	return items, nil
}

func logActivity(tx *gorm.DB, entityType string, entityID uuid.UUID, action, description string) error {
	entry := models.ActivityLog{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// CreateQuote creates a new quote with its items in a single transaction
func CreateQuote(c *gin.Context) {
	var input CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	items, err := buildQuoteItems(input.Items)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Aggregates are always recomputed from the items, never taken from the
	// request. Tax is zero under current business rules.
	tax := decimal.Zero
	subtotal, total := services.QuoteTotals(items, tax)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quoteNumber, err := services.NextQuoteNumber(tx, time.Now())
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign quote number")
		return
	}

	quote := models.Quote{
		QuoteNumber: quoteNumber,
		ClientID:    input.ClientID,
		Status:      models.QuoteStatusDraft,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		Notes:       input.Notes,
		ValidUntil:  input.ValidUntil,
		Items:       items,
	}

	if err := tx.Create(&quote).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Quote number conflict, please retry")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote")
		}
		return
	}

	if err := logActivity(tx, "quote", quote.ID, models.ActivityCreated, fmt.Sprintf("Quote %s created", quote.QuoteNumber)); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, quote)
}

// GetQuotes retrieves quotes filtered by status, client and free-text search,
// newest first
func GetQuotes(c *gin.Context) {
	query := config.DB.Model(&models.Quote{}).
		Select("quotes.*, clients.name AS client_name, clients.company AS client_company, clients.email AS client_email").
		Joins("JOIN clients ON clients.id = quotes.client_id")

	if status := c.Query("status"); status != "" {
		query = query.Where("quotes.status = ?", status)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("quotes.client_id = ?", clientUUID)
	}
	if search := c.Query("search"); search != "" {
		s := "%" + search + "%"
		query = query.Where("(quotes.quote_number ILIKE ? OR clients.company ILIKE ? OR clients.name ILIKE ?)", s, s, s)
	}

	var quotes []QuoteRow
	if err := query.Order("quotes.created_at DESC").Scan(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// GetQuoteStats returns derived quote statistics
func GetQuoteStats(c *gin.Context) {
	var pending int64
	config.DB.Model(&models.Quote{}).
		Where("status IN ?", []models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusSent}).
		Count(&pending)

	firstOfMonth := utils.BeginningOfMonth(time.Now())
	var thisMonth int64
	config.DB.Model(&models.Quote{}).Where("created_at >= ?", firstOfMonth).Count(&thisMonth)

	var accepted struct {
		Count int64           `json:"count"`
		Total decimal.Decimal `json:"total"`
	}
	config.DB.Model(&models.Quote{}).
		Where("status = ?", models.QuoteStatusAccepted).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Scan(&accepted)

	var topParts []TopPart
	config.DB.Raw(`
		SELECT qi.part_number, MAX(qi.description) AS description,
		       COUNT(*) AS times_quoted, SUM(qi.quantity) AS total_qty
		FROM quote_items qi
		GROUP BY qi.part_number
		ORDER BY times_quoted DESC
		LIMIT 5
	`).Scan(&topParts)

	c.JSON(http.StatusOK, gin.H{
		"pending_quotes":   pending,
		"quotes_this_month": thisMonth,
		"accepted_total":   accepted.Total,
		"accepted_count":   accepted.Count,
		"top_parts":        topParts,
	})
}

// GetQuote retrieves a specific quote with joined client fields and its items
func GetQuote(c *gin.Context) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	var detail QuoteDetail
	res := config.DB.Model(&models.Quote{}).
		Select(`quotes.*, clients.name AS client_name, clients.company AS client_company,
			clients.email AS client_email, clients.phone AS client_phone,
			clients.whatsapp AS client_whatsapp, clients.country AS client_country`).
		Joins("JOIN clients ON clients.id = quotes.client_id").
		Where("quotes.id = ?", quoteUUID).
		Scan(&detail)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		return
	}

	if err := config.DB.Where("quote_id = ?", quoteUUID).Find(&detail.Items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quote items")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateQuote partially updates a quote. A present items array replaces the
// whole item set and recomputes totals; a present, different status goes
// through the transition check and produces an audit record.
func UpdateQuote(c *gin.Context) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	var input UpdateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var quote models.Quote
	if err := tx.Preload("Items").First(&quote, "id = ?", quoteUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ClientID != nil && *input.ClientID != quote.ClientID {
		var client models.Client
		if err := tx.First(&client, "id = ?", *input.ClientID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		quote.ClientID = *input.ClientID
	}

	statusChanged := false
	previousStatus := quote.Status
	if input.Status != nil && *input.Status != quote.Status {
		if !(*input.Status).Valid() {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown status %q", *input.Status))
			return
		}
		if !services.CanTransition(quote.Status, *input.Status) {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest,
				fmt.Sprintf("Cannot change status from %s to %s", quote.Status, *input.Status))
			return
		}
		quote.Status = *input.Status
		statusChanged = true
	}

	if input.Notes != nil {
		quote.Notes = *input.Notes
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}

	if input.Items != nil {
		items, err := buildQuoteItems(*input.Items)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}
		for i := range items {
			items[i].QuoteID = quote.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote items")
				return
			}
		}

		quote.Items = items
		quote.Subtotal, quote.Total = services.QuoteTotals(items, quote.Tax)
	}

	if err := tx.Omit("Items").Save(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	if statusChanged {
		if err := logActivity(tx, "quote", quote.ID, models.ActivityStatusChange,
			fmt.Sprintf("Quote %s changed to %s", quote.QuoteNumber, quote.Status)); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
			return
		}
	}

	tx.Commit()

	if statusChanged && quote.Status == models.QuoteStatusSent && previousStatus == models.QuoteStatusDraft && Notifier != nil {
		var client models.Client
		if err := config.DB.First(&client, "id = ?", quote.ClientID).Error; err == nil {
			go Notifier.QuoteSent(quote, client)
		}
	}

	c.JSON(http.StatusOK, quote)
}

// DuplicateQuote clones a quote and its items into a new draft with a fresh
// number, all in one transaction. The item snapshots are copied as-is, not
// re-resolved against current part data.
func DuplicateQuote(c *gin.Context) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var original models.Quote
	if err := tx.Preload("Items").First(&original, "id = ?", quoteUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	quoteNumber, err := services.NextQuoteNumber(tx, time.Now())
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign quote number")
		return
	}

	validUntil := time.Now().AddDate(0, 0, 30)
	copied := models.Quote{
		QuoteNumber: quoteNumber,
		ClientID:    original.ClientID,
		Status:      models.QuoteStatusDraft,
		Subtotal:    original.Subtotal,
		Tax:         original.Tax,
		Total:       original.Total,
		Notes:       services.DuplicationNotes(original.QuoteNumber, original.Notes),
		ValidUntil:  &validUntil,
	}
	for _, it := range original.Items {
		copied.Items = append(copied.Items, models.QuoteItem{
			PartID:      it.PartID,
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Condition:   it.Condition,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}

	if err := tx.Create(&copied).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Quote number conflict, please retry")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to duplicate quote")
		}
		return
	}

	if err := logActivity(tx, "quote", copied.ID, models.ActivityCreated,
		fmt.Sprintf("Quote %s duplicated from %s", copied.QuoteNumber, original.QuoteNumber)); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, copied)
}

// DeleteQuote permanently removes a quote and its items
func DeleteQuote(c *gin.Context) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var quote models.Quote
	if err := tx.First(&quote, "id = ?", quoteUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote items")
		return
	}
	if err := tx.Delete(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	if err := logActivity(tx, "quote", quote.ID, models.ActivityDeleted,
		fmt.Sprintf("Quote %s deleted", quote.QuoteNumber)); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetQuotePDF renders the quote as a PDF document
func GetQuotePDF(c *gin.Context) {
	quoteUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid quote ID format")
		return
	}

	var quote models.Quote
	if err := config.DB.Preload("Items").First(&quote, "id = ?", quoteUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", quote.ClientID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	data, err := services.QuotePDF(quote, client)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, quote.QuoteNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}
