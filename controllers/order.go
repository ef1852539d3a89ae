// controllers/order.go
package controllers

import (
	"net/http"

	"caterdesk-backend/services"
	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderSelectionInput is one chosen variant within the pack
type OrderSelectionInput struct {
	VariantID uuid.UUID `json:"variantId" binding:"required"`
}

// PlaceOrderInput defines the expected JSON structure for placing an order
type PlaceOrderInput struct {
	BusinessID uuid.UUID             `json:"businessId" binding:"required"`
	UserID     uuid.UUID             `json:"userId" binding:"required"`
	ServiceID  uuid.UUID             `json:"serviceId" binding:"required"`
	PackID     uuid.UUID             `json:"packId" binding:"required"`
	Date       string                `json:"date" binding:"required"` // YYYY-MM-DD
	Selections []OrderSelectionInput `json:"selections" binding:"required,min=1"`
}

// PlaceOrder reserves stock and records the order in one transaction
func PlaceOrder(c *gin.Context) {
	var input PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	selections := make([]services.OrderSelection, 0, len(input.Selections))
	for _, sel := range input.Selections {
		selections = append(selections, services.OrderSelection{VariantID: sel.VariantID})
	}

	order, err := orderService().Place(services.PlaceOrderInput{
		BusinessID: input.BusinessID,
		UserID:     input.UserID,
		ServiceID:  input.ServiceID,
		PackID:     input.PackID,
		Date:       date,
		Selections: selections,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder retrieves a specific order by ID
func GetOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := orderService().Get(orderID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrders lists the orders of one business
func GetOrders(c *gin.Context) {
	businessID, err := uuid.Parse(c.Query("businessId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "businessId query parameter is required")
		return
	}
	orders, err := orderService().ListForBusiness(businessID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CancelOrder releases the reservations and marks the order cancelled
func CancelOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := orderService().Cancel(orderID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
