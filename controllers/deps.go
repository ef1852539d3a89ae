// controllers/deps.go
package controllers

import (
	"caterdesk-backend/config"
	"caterdesk-backend/services"
	"caterdesk-backend/utils"
)

// Clock is swapped for a fixed clock in tests; everything time-gated flows
// through it.
var Clock utils.Clock = utils.RealClock{}

func menuService() *services.MenuService {
	return services.NewMenuService(config.DB, Clock)
}

func stockService() *services.StockService {
	return services.NewStockService(config.DB, Clock)
}

func subscriptionService() *services.SubscriptionService {
	return services.NewSubscriptionService(config.DB, Clock)
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.DB, Clock, stockService(), subscriptionService())
}
