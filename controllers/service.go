// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"caterdesk-backend/config"
	"caterdesk-backend/models"
	"caterdesk-backend/services"
	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	OrderStartTime string `json:"orderStartTime"`
	CutoffTime     string `json:"cutoffTime"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	OrderStartTime *string `json:"orderStartTime"`
	CutoffTime     *string `json:"cutoffTime"`
	IsActive       *bool   `json:"isActive"`
	IsPublished    *bool   `json:"isPublished"`
}

func validateWindow(start, cutoff string) string {
	if !utils.ValidateClockTime(start) {
		return "orderStartTime must be HH:MM"
	}
	if !utils.ValidateClockTime(cutoff) {
		return "cutoffTime must be HH:MM"
	}
	// Same-day window only; no overnight wrap.
	if start != "" && cutoff != "" && start >= cutoff {
		return "orderStartTime must be before cutoffTime"
	}
	return ""
}

// CreateService creates a new ordering channel
func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := validateWindow(input.OrderStartTime, input.CutoffTime); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	service := models.Service{
		Name:           input.Name,
		Description:    input.Description,
		OrderStartTime: input.OrderStartTime,
		CutoffTime:     input.CutoffTime,
		IsActive:       true,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services
func GetServices(c *gin.Context) {
	var list []models.Service
	if err := config.DB.Preload("Packs").Find(&list).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetService retrieves a specific service by ID
func GetService(c *gin.Context) {
	serviceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := config.DB.Preload("Packs").First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func UpdateService(c *gin.Context) {
	serviceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.OrderStartTime != nil {
		service.OrderStartTime = *input.OrderStartTime
	}
	if input.CutoffTime != nil {
		service.CutoffTime = *input.CutoffTime
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsPublished != nil {
		service.IsPublished = *input.IsPublished
	}
	if msg := validateWindow(service.OrderStartTime, service.CutoffTime); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, service)
}

// AddPackToService adds a pack to the service's offer catalog
func AddPackToService(c *gin.Context) {
	serviceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input AttachPackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	var pack models.Pack
	if err := config.DB.First(&pack, "id = ?", input.PackID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Pack not found")
		return
	}

	var existing models.ServicePack
	if err := config.DB.Where("service_id = ? AND pack_id = ?", serviceID, input.PackID).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Pack is already offered by this service")
		return
	}

	servicePack := models.ServicePack{ServiceID: serviceID, PackID: input.PackID}
	if err := config.DB.Create(&servicePack).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add pack to service")
		return
	}
	c.JSON(http.StatusCreated, servicePack)
}

// GetServiceWindow exposes the resolver verdict and the display countdown for
// a service on a given date (defaults to today). The resolver, not the
// countdown, is what rejects orders.
func GetServiceWindow(c *gin.Context) {
	serviceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	now := Clock.Now()
	date := utils.BeginningOfDay(now)
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	state := services.ResolveWindow(&service, date, now)
	resp := gin.H{"state": state}
	if remaining, hasCutoff := services.Countdown(&service, date, now); hasCutoff {
		resp["countdownSeconds"] = int(remaining.Seconds())
	}
	c.JSON(http.StatusOK, resp)
}
