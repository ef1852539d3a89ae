// controllers/catalog.go
package controllers

import (
	"errors"
	"net/http"

	"caterdesk-backend/config"
	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePackInput defines the expected JSON structure for creating a pack
type CreatePackInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,min=0"`
}

// UpdatePackInput defines the expected JSON structure for updating a pack
type UpdatePackInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"isActive"`
}

type CreateComponentInput struct {
	Name       string `json:"name" binding:"required"`
	IsRequired *bool  `json:"isRequired"`
}

type CreateVariantInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PhotoURL      string `json:"photoUrl"`
	StockQuantity int    `json:"stockQuantity" binding:"min=0"`
}

// UpdateVariantInput carries the generic variant PATCH. A stockQuantity here
// is an absolute set of the catalog-level default; per-menu stock goes
// through the daily menu endpoints.
type UpdateVariantInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PhotoURL      *string `json:"photoUrl"`
	StockQuantity *int    `json:"stockQuantity"`
	IsActive      *bool   `json:"isActive"`
}

// CreatePack creates a new pack
func CreatePack(c *gin.Context) {
	var input CreatePackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pack := models.Pack{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    true,
	}
	if err := config.DB.Create(&pack).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pack")
		return
	}
	c.JSON(http.StatusCreated, pack)
}

// GetPacks retrieves all packs with their components and variants
func GetPacks(c *gin.Context) {
	var packs []models.Pack
	if err := config.DB.Preload("Components.Variants").Find(&packs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve packs")
		return
	}
	c.JSON(http.StatusOK, packs)
}

// GetPack retrieves a specific pack by ID
func GetPack(c *gin.Context) {
	packID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var pack models.Pack
	if err := config.DB.Preload("Components.Variants").First(&pack, "id = ?", packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pack not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, pack)
}

// UpdatePack updates an existing pack. Menus that already carry the pack keep
// the name and price they denormalized at attach time.
func UpdatePack(c *gin.Context) {
	packID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var pack models.Pack
	if err := config.DB.First(&pack, "id = ?", packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pack not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		pack.Name = *input.Name
	}
	if input.Description != nil {
		pack.Description = *input.Description
	}
	if input.Price != nil {
		pack.Price = *input.Price
	}
	if input.IsActive != nil {
		pack.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&pack).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update pack")
		return
	}
	c.JSON(http.StatusOK, pack)
}

// CreateComponent adds a slot to a pack
func CreateComponent(c *gin.Context) {
	packID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input CreateComponentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var pack models.Pack
	if err := config.DB.First(&pack, "id = ?", packID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Pack not found")
		return
	}

	component := models.Component{
		PackID:     packID,
		Name:       input.Name,
		IsRequired: true,
	}
	if input.IsRequired != nil {
		component.IsRequired = *input.IsRequired
	}
	if err := config.DB.Create(&component).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create component")
		return
	}
	c.JSON(http.StatusCreated, component)
}

// CreateVariant adds a choice to a component
func CreateVariant(c *gin.Context) {
	componentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input CreateVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var component models.Component
	if err := config.DB.First(&component, "id = ?", componentID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Component not found")
		return
	}

	variant := models.Variant{
		ComponentID:   componentID,
		Name:          input.Name,
		Description:   input.Description,
		PhotoURL:      input.PhotoURL,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
	}
	if err := config.DB.Create(&variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create variant")
		return
	}
	c.JSON(http.StatusCreated, variant)
}

// UpdateVariant updates catalog fields, including the absolute stockQuantity
// default. Daily menu ledgers already seeded from it are not touched.
func UpdateVariant(c *gin.Context) {
	variantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var variant models.Variant
	if err := config.DB.First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Variant not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		variant.Name = *input.Name
	}
	if input.Description != nil {
		variant.Description = *input.Description
	}
	if input.PhotoURL != nil {
		variant.PhotoURL = *input.PhotoURL
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Stock quantity cannot be negative")
			return
		}
		variant.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update variant")
		return
	}
	c.JSON(http.StatusOK, variant)
}
