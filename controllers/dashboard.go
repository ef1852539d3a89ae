// controllers/dashboard.go
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

type DashboardOverview struct {
	Date            string            `json:"date"`
	MenuStatus      string            `json:"menuStatus"`
	PacksOnMenu     int               `json:"packsOnMenu"`
	OrdersPlaced    int64             `json:"ordersPlaced"`
	OrdersCancelled int64             `json:"ordersCancelled"`
	StockLines      []StockLineStatus `json:"stockLines"`
}

type StockLineStatus struct {
	VariantName  string `json:"variantName"`
	InitialStock int    `json:"initialStock"`
	Remaining    int    `json:"remaining"`
}

// GetDashboardOverview summarizes today's menu for the admin landing page:
// lifecycle status, order counts and per-variant stock remaining.
func GetDashboardOverview(c *gin.Context) {
	today := utils.BeginningOfDay(Clock.Now().UTC())
	overview := DashboardOverview{Date: today.Format(utils.DateLayout)}

	var menu models.DailyMenu
	err := config.DB.Preload("Packs").Preload("Variants").Where("date = ?", today).First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		overview.MenuStatus = "NONE"
		c.JSON(http.StatusOK, overview)
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	overview.MenuStatus = string(menu.Status)
	overview.PacksOnMenu = len(menu.Packs)

	config.DB.Model(&models.Order{}).
		Where("daily_menu_id = ? AND status = ?", menu.ID, models.OrderPlaced).
		Count(&overview.OrdersPlaced)
	config.DB.Model(&models.Order{}).
		Where("daily_menu_id = ? AND status = ?", menu.ID, models.OrderCancelled).
		Count(&overview.OrdersCancelled)

	for _, line := range menu.Variants {
		overview.StockLines = append(overview.StockLines, StockLineStatus{
			VariantName:  line.VariantName,
			InitialStock: line.InitialStock,
			Remaining:    line.Remaining,
		})
	}

	c.JSON(http.StatusOK, overview)
}
