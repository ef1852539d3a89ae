// controllers/business_service.go
package controllers

import (
	"net/http"
	"time"

	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivateServiceInput mirrors the portal payload: packIds is length-1, the
// single initial pack chosen at activation.
type ActivateServiceInput struct {
	ServiceID uuid.UUID   `json:"serviceId" binding:"required"`
	PackIDs   []uuid.UUID `json:"packIds" binding:"required,min=1,max=1"`
}

// ChangePackInput carries the new pack and an optional future effective date.
type ChangePackInput struct {
	PackIDs       []uuid.UUID `json:"packIds" binding:"required,min=1,max=1"`
	EffectiveDate *string     `json:"effectiveDate"` // YYYY-MM-DD
}

// ActivateBusinessService subscribes the business to a service with one pack
func ActivateBusinessService(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input ActivateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sub, err := subscriptionService().Activate(businessID, input.ServiceID, input.PackIDs[0])
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GetBusinessService returns the subscription, applying a due scheduled
// switch first so the caller never sees a stale pack.
func GetBusinessService(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseUUIDParam(c, "serviceId")
	if !ok {
		return
	}

	sub, err := subscriptionService().Get(businessID, serviceID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ChangeBusinessServicePack schedules a pack switch. The response reflects
// the still-active pack plus the pending nextPackId/effectiveDate.
func ChangeBusinessServicePack(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseUUIDParam(c, "serviceId")
	if !ok {
		return
	}
	var input ChangePackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var requested *time.Time
	if input.EffectiveDate != nil {
		parsed, err := utils.ParseDate(*input.EffectiveDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid effectiveDate, expected YYYY-MM-DD")
			return
		}
		requested = &parsed
	}

	sub, err := subscriptionService().ChangePack(businessID, serviceID, input.PackIDs[0], requested)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CancelScheduledPackChange clears a pending switch
func CancelScheduledPackChange(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseUUIDParam(c, "serviceId")
	if !ok {
		return
	}

	sub, err := subscriptionService().CancelScheduledChange(businessID, serviceID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeactivateBusinessService ends the subscription, keeping history
func DeactivateBusinessService(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseUUIDParam(c, "serviceId")
	if !ok {
		return
	}

	if err := subscriptionService().Deactivate(businessID, serviceID); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deactivated"})
}
