// controllers/daily_menu.go
package controllers

import (
	"net/http"

	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateDailyMenuInput defines the expected JSON structure for creating a menu
type CreateDailyMenuInput struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type AttachPackInput struct {
	PackID uuid.UUID `json:"packId" binding:"required"`
}

type AttachVariantInput struct {
	VariantID    uuid.UUID `json:"variantId" binding:"required"`
	InitialStock *int      `json:"initialStock"` // defaults to the catalog stockQuantity
}

// AdjustMenuVariantInput carries either a relative stock adjustment or an
// absolute re-seed for one menu line.
type AdjustMenuVariantInput struct {
	Adjust        *int `json:"adjust"`
	StockQuantity *int `json:"stockQuantity"`
}

// CreateDailyMenu creates the DRAFT menu for a date
func CreateDailyMenu(c *gin.Context) {
	var input CreateDailyMenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	menu, err := menuService().Create(date)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

// GetDailyMenus lists all menus
func GetDailyMenus(c *gin.Context) {
	menus, err := menuService().List()
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// GetDailyMenu retrieves one menu by id
func GetDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	menu, err := menuService().Get(menuID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// DeleteDailyMenu destroys a menu that has no orders
func DeleteDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := menuService().Delete(menuID); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted successfully"})
}

// AttachPackToMenu adds a pack to the menu, denormalizing name and price
func AttachPackToMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input AttachPackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	menuPack, err := menuService().AttachPack(menuID, input.PackID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menuPack)
}

// DetachPackFromMenu removes a pack; refused once orders reference it
func DetachPackFromMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	packID, ok := parseUUIDParam(c, "packId")
	if !ok {
		return
	}
	if err := menuService().DetachPack(menuID, packID); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pack removed from menu"})
}

// AttachVariantToMenu adds a stock line for a variant
func AttachVariantToMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input AttachVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	line, err := menuService().AttachVariant(menuID, input.VariantID, input.InitialStock)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// DetachVariantFromMenu removes a stock line; refused once orders reference it
func DetachVariantFromMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseUUIDParam(c, "variantId")
	if !ok {
		return
	}
	if err := menuService().DetachVariant(menuID, variantID); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Variant removed from menu"})
}

// UpdateMenuVariantStock applies a relative adjust or an absolute re-seed to
// one menu stock line. Menu-scoped stockQuantity is a ledger seed, not the
// catalog default.
func UpdateMenuVariantStock(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseUUIDParam(c, "variantId")
	if !ok {
		return
	}
	var input AdjustMenuVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Adjust == nil && input.StockQuantity == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Either adjust or stockQuantity is required")
		return
	}

	if input.Adjust != nil {
		line, err := stockService().Adjust(menuID, variantID, *input.Adjust)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
		return
	}

	line, err := stockService().Seed(menuID, variantID, *input.StockQuantity)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// PublishDailyMenu transitions the menu to PUBLISHED and returns the advisory
// warnings. Warnings never block publishing.
func PublishDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	menu, warnings, err := menuService().Publish(menuID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"menu":     menu,
		"warnings": warnings,
	})
}

// LockDailyMenu freezes the menu once the governing cutoff has passed
func LockDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	menu, err := menuService().Lock(menuID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// UnlockDailyMenu is the audited escape hatch back to PUBLISHED
func UnlockDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	menu, err := menuService().Unlock(menuID, actorFromContext(c))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// UnpublishDailyMenu is the audited escape hatch back to DRAFT
func UnpublishDailyMenu(c *gin.Context) {
	menuID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	menu, err := menuService().Unpublish(menuID, actorFromContext(c))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

func actorFromContext(c *gin.Context) string {
	if userID, exists := c.Get("userId"); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return "unknown"
}
