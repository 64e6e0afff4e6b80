// controllers/part.go
package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePartInput defines the expected JSON structure for creating a part
type CreatePartInput struct {
	PartNumber    string          `json:"part_number" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Condition     string          `json:"condition" binding:"required,oneof=NEW OH SV AR REPAIRED"`
	SerialNumber  string          `json:"serial_number"`
	Quantity      int             `json:"quantity" binding:"min=0"`
	Location      string          `json:"location"`
	Price         decimal.Decimal `json:"price"`
	Certification string          `json:"certification"`
	AircraftType  string          `json:"aircraft_type"`
	Category      string          `json:"category"`
	Notes         string          `json:"notes"`
}

// UpdatePartInput defines the expected JSON structure for updating a part
type UpdatePartInput struct {
	PartNumber    *string          `json:"part_number"`
	Description   *string          `json:"description"`
	Condition     *string          `json:"condition" binding:"omitempty,oneof=NEW OH SV AR REPAIRED"`
	SerialNumber  *string          `json:"serial_number"`
	Quantity      *int             `json:"quantity" binding:"omitempty,min=0"`
	Location      *string          `json:"location"`
	Price         *decimal.Decimal `json:"price"`
	Certification *string          `json:"certification"`
	AircraftType  *string          `json:"aircraft_type"`
	Category      *string          `json:"category"`
	Notes         *string          `json:"notes"`
}

// CreatePart adds a part to the inventory
func CreatePart(c *gin.Context) {
	var input CreatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	part := models.Part{
		PartNumber:    input.PartNumber,
		Description:   input.Description,
		Condition:     input.Condition,
		SerialNumber:  input.SerialNumber,
		Quantity:      input.Quantity,
		Location:      input.Location,
		Price:         input.Price.Round(2),
		Certification: input.Certification,
		AircraftType:  input.AircraftType,
		Category:      input.Category,
		Notes:         input.Notes,
	}

	if err := config.DB.Create(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create part")
		return
	}

	c.JSON(http.StatusCreated, part)
}

// GetParts retrieves a filtered, paginated inventory listing
func GetParts(c *gin.Context) {
	query := config.DB.Model(&models.Part{})

	if search := c.Query("search"); search != "" {
		s := "%" + search + "%"
		query = query.Where(
			"(part_number ILIKE ? OR description ILIKE ? OR aircraft_type ILIKE ? OR serial_number ILIKE ?)",
			s, s, s, s)
	}
	if condition := c.Query("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count parts")
		return
	}

	var parts []models.Part
	if err := query.
		Order("updated_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&parts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve parts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parts":       parts,
		"total":       total,
		"page":        page,
		"total_pages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetPartCategories returns the distinct part categories in use
func GetPartCategories(c *gin.Context) {
	var categories []string
	if err := config.DB.Model(&models.Part{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetPart retrieves a single part by ID
func GetPart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var part models.Part
	if err := config.DB.First(&part, "id = ?", partUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, part)
}

// UpdatePart updates an existing part
func UpdatePart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var input UpdatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var part models.Part
	if err := config.DB.First(&part, "id = ?", partUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PartNumber != nil {
		part.PartNumber = *input.PartNumber
	}
	if input.Description != nil {
		part.Description = *input.Description
	}
	if input.Condition != nil {
		part.Condition = *input.Condition
	}
	if input.SerialNumber != nil {
		part.SerialNumber = *input.SerialNumber
	}
	if input.Quantity != nil {
		part.Quantity = *input.Quantity
	}
	if input.Location != nil {
		part.Location = *input.Location
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		part.Price = input.Price.Round(2)
	}
	if input.Certification != nil {
		part.Certification = *input.Certification
	}
	if input.AircraftType != nil {
		part.AircraftType = *input.AircraftType
	}
	if input.Category != nil {
		part.Category = *input.Category
	}
	if input.Notes != nil {
		part.Notes = *input.Notes
	}

	if err := config.DB.Save(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update part")
		return
	}

	c.JSON(http.StatusOK, part)
}

// DeletePart removes a part from the inventory. Quote items keep their frozen
// snapshot of the part, so existing quotes are unaffected.
func DeletePart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	result := config.DB.Delete(&models.Part{}, "id = ?", partUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete part")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
