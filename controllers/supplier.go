// controllers/supplier.go
package controllers

import (
	"errors"
	"net/http"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSupplierInput defines the expected JSON structure for creating a supplier
type CreateSupplierInput struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	Specialty   string `json:"specialty"`
	Notes       string `json:"notes"`
}

// UpdateSupplierInput defines the expected JSON structure for updating a supplier
type UpdateSupplierInput struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Country     *string `json:"country"`
	Specialty   *string `json:"specialty"`
	Notes       *string `json:"notes"`
}

// CreateSupplier creates a new supplier
func CreateSupplier(c *gin.Context) {
	var input CreateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	supplier := models.Supplier{
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Country:     input.Country,
		Specialty:   input.Specialty,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&supplier).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// GetSuppliers retrieves all suppliers, optionally filtered by a search term
func GetSuppliers(c *gin.Context) {
	query := config.DB.Model(&models.Supplier{})

	if search := c.Query("search"); search != "" {
		s := "%" + search + "%"
		query = query.Where("name ILIKE ? OR specialty ILIKE ? OR contact_name ILIKE ?", s, s, s)
	}

	var suppliers []models.Supplier
	if err := query.Order("name ASC").Find(&suppliers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve suppliers")
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier retrieves a specific supplier together with their RFQs
func GetSupplier(c *gin.Context) {
	supplierUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", supplierUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var rfqs []models.RFQ
	if err := config.DB.Where("supplier_id = ?", supplier.ID).
		Order("created_at DESC").
		Find(&rfqs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve supplier RFQs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           supplier.ID,
		"name":         supplier.Name,
		"contact_name": supplier.ContactName,
		"email":        supplier.Email,
		"phone":        supplier.Phone,
		"country":      supplier.Country,
		"specialty":    supplier.Specialty,
		"notes":        supplier.Notes,
		"created_at":   supplier.CreatedAt,
		"updated_at":   supplier.UpdatedAt,
		"rfqs":         rfqs,
	})
}

// UpdateSupplier updates an existing supplier
func UpdateSupplier(c *gin.Context) {
	supplierUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var input UpdateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var supplier models.Supplier
	if err := config.DB.First(&supplier, "id = ?", supplierUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Supplier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.ContactName != nil {
		supplier.ContactName = *input.ContactName
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.Country != nil {
		supplier.Country = *input.Country
	}
	if input.Specialty != nil {
		supplier.Specialty = *input.Specialty
	}
	if input.Notes != nil {
		supplier.Notes = *input.Notes
	}

	if err := config.DB.Save(&supplier).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}
