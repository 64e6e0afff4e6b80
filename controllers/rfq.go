// controllers/rfq.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateRFQInput defines the expected JSON structure for creating an RFQ
type CreateRFQInput struct {
	SupplierID  uuid.UUID  `json:"supplier_id" binding:"required"`
	QuoteID     *uuid.UUID `json:"quote_id"`
	PartNumber  string     `json:"part_number" binding:"required"`
	Description string     `json:"description"`
	Quantity    *int       `json:"quantity" binding:"omitempty,min=1"`
	Urgency     string     `json:"urgency" binding:"omitempty,oneof=low normal high aog"`
}

// UpdateRFQInput defines the expected JSON structure for updating an RFQ
type UpdateRFQInput struct {
	Status        *string          `json:"status" binding:"omitempty,oneof=pending sent answered cancelled"`
	ResponsePrice *decimal.Decimal `json:"response_price"`
	ResponseNotes *string          `json:"response_notes"`
}

// RFQRow is an RFQ with the joined supplier name, as returned by the list endpoint
type RFQRow struct {
	ID          uuid.UUID  `json:"id"`
	SupplierID  uuid.UUID  `json:"supplier_id"`
	QuoteID     *uuid.UUID `json:"quote_id"`
	PartNumber  string     `json:"part_number"`
	Description string     `json:"description"`
	Quantity    int        `json:"quantity"`
	Urgency     string     `json:"urgency"`
	Status      string     `json:"status"`

	ResponsePrice *decimal.Decimal `json:"response_price"`
	ResponseNotes string           `json:"response_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SupplierName string `json:"supplier_name"`
}

// RFQDetail adds the supplier contact fields
type RFQDetail struct {
	RFQRow
	SupplierEmail string `json:"supplier_email"`
	SupplierPhone string `json:"supplier_phone"`
}

// CreateRFQ creates a supplier request-for-quote
func CreateRFQ(c *gin.Context) {
	var input CreateRFQInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", input.SupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = "normal"
	}

	rfq := models.RFQ{
		SupplierID:  input.SupplierID,
		QuoteID:     input.QuoteID,
		PartNumber:  input.PartNumber,
		Description: input.Description,
		Quantity:    quantity,
		Urgency:     urgency,
		Status:      models.RFQStatusPending,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&rfq).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create RFQ")
		return
	}

	if err := logActivity(tx, "rfq", rfq.ID, models.ActivityCreated,
		fmt.Sprintf("RFQ created for %s", rfq.PartNumber)); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, rfq)
}

// GetRFQs retrieves RFQs filtered by status and supplier, newest first
func GetRFQs(c *gin.Context) {
	query := config.DB.Model(&models.RFQ{}).
		Select("rfqs.*, suppliers.name AS supplier_name").
		Joins("JOIN suppliers ON suppliers.id = rfqs.supplier_id")

	if status := c.Query("status"); status != "" {
		query = query.Where("rfqs.status = ?", status)
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		supplierUUID, err := uuid.Parse(supplierID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid supplier ID format")
			return
		}
		query = query.Where("rfqs.supplier_id = ?", supplierUUID)
	}

	var rfqs []RFQRow
	if err := query.Order("rfqs.created_at DESC").Scan(&rfqs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve RFQs")
		return
	}

	c.JSON(http.StatusOK, rfqs)
}

// GetRFQ retrieves a single RFQ with the joined supplier contact
func GetRFQ(c *gin.Context) {
	rfqUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	var detail RFQDetail
	res := config.DB.Model(&models.RFQ{}).
		Select(`rfqs.*, suppliers.name AS supplier_name, suppliers.email AS supplier_email,
			suppliers.phone AS supplier_phone`).
		Joins("JOIN suppliers ON suppliers.id = rfqs.supplier_id").
		Where("rfqs.id = ?", rfqUUID).
		Scan(&detail)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "RFQ not found")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateRFQ records a supplier response or a status change
func UpdateRFQ(c *gin.Context) {
	rfqUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid RFQ ID format")
		return
	}

	var input UpdateRFQInput
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

	var rfq models.RFQ
	if err := tx.First(&rfq, "id = ?", rfqUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "RFQ not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	statusChanged := false
	if input.Status != nil && *input.Status != rfq.Status {
		rfq.Status = *input.Status
		statusChanged = true
	}
	if input.ResponsePrice != nil {
		if input.ResponsePrice.IsNegative() {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Response price cannot be negative")
			return
		}
		rounded := input.ResponsePrice.Round(2)
		rfq.ResponsePrice = &rounded
	}
	if input.ResponseNotes != nil {
		rfq.ResponseNotes = *input.ResponseNotes
	}

	if err := tx.Save(&rfq).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update RFQ")
		return
	}

	if statusChanged {
		if err := logActivity(tx, "rfq", rfq.ID, models.ActivityStatusChange,
			fmt.Sprintf("RFQ status changed to %s", rfq.Status)); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, rfq)
}
