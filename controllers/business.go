// controllers/business.go
package controllers

import (
	"errors"
	"net/http"

	"caterdesk-backend/config"
	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateBusinessInput defines the expected JSON structure for creating a business
type CreateBusinessInput struct {
	Name        string         `json:"name" binding:"required"`
	LogoURL     string         `json:"logoUrl"`
	ContactInfo datatypes.JSON `json:"contactInfo"`
}

// UpdateBusinessInput defines the expected JSON structure for updating a business
type UpdateBusinessInput struct {
	Name        *string         `json:"name"`
	LogoURL     *string         `json:"logoUrl"`
	ContactInfo *datatypes.JSON `json:"contactInfo"`
	IsActive    *bool           `json:"isActive"`
}

// CreateBusiness creates a new client business
func CreateBusiness(c *gin.Context) {
	var input CreateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	business := models.Business{
		Name:        input.Name,
		LogoURL:     input.LogoURL,
		ContactInfo: input.ContactInfo,
		IsActive:    true,
	}
	if err := config.DB.Create(&business).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create business")
		return
	}
	c.JSON(http.StatusCreated, business)
}

// GetBusinesses retrieves all businesses
func GetBusinesses(c *gin.Context) {
	var businesses []models.Business
	if err := config.DB.Preload("Services.Pack").Find(&businesses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve businesses")
		return
	}
	c.JSON(http.StatusOK, businesses)
}

// GetBusiness retrieves a specific business by ID
func GetBusiness(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var business models.Business
	if err := config.DB.Preload("Services.Pack").First(&business, "id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Business not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, business)
}

// UpdateBusiness updates an existing business
func UpdateBusiness(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var business models.Business
	if err := config.DB.First(&business, "id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Business not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.LogoURL != nil {
		business.LogoURL = *input.LogoURL
	}
	if input.ContactInfo != nil {
		business.ContactInfo = *input.ContactInfo
	}
	if input.IsActive != nil {
		business.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&business).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update business")
		return
	}
	c.JSON(http.StatusOK, business)
}
