// controllers/client.go
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

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
	Country  string `json:"country"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Notes    string `json:"notes"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name     *string `json:"name"`
	Company  *string `json:"company"`
	Country  *string `json:"country"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	WhatsApp *string `json:"whatsapp"`
	Notes    *string `json:"notes"`
}

// CreateClient creates a new client
func CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		Name:     input.Name,
		Company:  input.Company,
		Country:  input.Country,
		Email:    input.Email,
		Phone:    input.Phone,
		WhatsApp: input.WhatsApp,
		Notes:    input.Notes,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients, optionally filtered by a search term
func GetClients(c *gin.Context) {
	query := config.DB.Model(&models.Client{})

	if search := c.Query("search"); search != "" {
		s := "%" + search + "%"
		query = query.Where("name ILIKE ? OR company ILIKE ? OR email ILIKE ? OR country ILIKE ?", s, s, s, s)
	}

	var clients []models.Client
	if err := query.Order("company ASC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client together with their quotes
func GetClient(c *gin.Context) {
	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", clientUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var quotes []models.Quote
	if err := config.DB.Where("client_id = ?", client.ID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve client quotes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         client.ID,
		"name":       client.Name,
		"company":    client.Company,
		"country":    client.Country,
		"email":      client.Email,
		"phone":      client.Phone,
		"whatsapp":   client.WhatsApp,
		"notes":      client.Notes,
		"created_at": client.CreatedAt,
		"updated_at": client.UpdatedAt,
		"quotes":     quotes,
	})
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", clientUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Company != nil {
		client.Company = *input.Company
	}
	if input.Country != nil {
		client.Country = *input.Country
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.WhatsApp != nil {
		client.WhatsApp = *input.WhatsApp
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client
func DeleteClient(c *gin.Context) {
	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	result := config.DB.Delete(&models.Client{}, "id = ?", clientUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
