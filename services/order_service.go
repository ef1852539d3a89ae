// services/order_service.go
package services

import (
	"errors"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService places and cancels employee orders. Placement runs in one
// transaction: entitlement resolution (including a due pack switch), the
// stock reservations and the order row commit together, so an order resolves
// against exactly one pack identity and a failed reservation leaves nothing
// behind.
type OrderService struct {
	db    *gorm.DB
	clock utils.Clock
	stock *StockService
	subs  *SubscriptionService
}

func NewOrderService(db *gorm.DB, clock utils.Clock, stock *StockService, subs *SubscriptionService) *OrderService {
	return &OrderService{db: db, clock: clock, stock: stock, subs: subs}
}

type OrderSelection struct {
	VariantID uuid.UUID
}

type PlaceOrderInput struct {
	BusinessID uuid.UUID
	UserID     uuid.UUID
	ServiceID  uuid.UUID
	PackID     uuid.UUID
	Date       time.Time
	Selections []OrderSelection
}

// Place validates the menu, window and entitlement, reserves one unit per
// chosen variant and records the order with the pack's menu-time name and
// price.
func (s *OrderService) Place(input PlaceOrderInput) (*models.Order, error) {
	if len(input.Selections) == 0 {
		return nil, utils.InvalidArgument("an order needs at least one variant")
	}

	var order *models.Order
	err := withRetry(func() error {
		var placeErr error
		order, placeErr = s.placeOnce(input)
		return placeErr
	})
	return order, err
}

func (s *OrderService) placeOnce(input PlaceOrderInput) (*models.Order, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var service models.Service
	if err := tx.Where("id = ? AND is_active = ?", input.ServiceID, true).First(&service).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("service not found")
		}
		return nil, err
	}

	var menu models.DailyMenu
	if err := tx.Where("date = ?", utils.BeginningOfDay(input.Date)).First(&menu).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("no daily menu for %s", input.Date.Format(utils.DateLayout))
		}
		return nil, err
	}
	if menu.Status == models.MenuLocked {
		tx.Rollback()
		return nil, utils.MenuLocked("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}
	if menu.Status != models.MenuPublished {
		tx.Rollback()
		return nil, utils.InvalidState("menu for %s is not published", menu.Date.Format(utils.DateLayout))
	}

	if ResolveWindow(&service, menu.Date, s.clock.Now()) != WindowOpen {
		tx.Rollback()
		return nil, utils.OrderWindowClosed("ordering for %s is not open", service.Name)
	}

	entitledPack, err := s.subs.ActivePackIDTx(tx, input.BusinessID, input.ServiceID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if entitledPack != input.PackID {
		tx.Rollback()
		return nil, utils.InvalidArgument("business is not entitled to this pack")
	}

	var menuPack models.DailyMenuPack
	if err := tx.Where("daily_menu_id = ? AND pack_id = ?", menu.ID, input.PackID).First(&menuPack).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("pack is not on the menu for %s", menu.Date.Format(utils.DateLayout))
		}
		return nil, err
	}

	var items []models.OrderItem
	chosen := make(map[uuid.UUID]bool, len(input.Selections))
	for _, sel := range input.Selections {
		var variant models.Variant
		if err := tx.First(&variant, "id = ?", sel.VariantID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("variant not found")
			}
			return nil, err
		}

		var component models.Component
		if err := tx.First(&component, "id = ?", variant.ComponentID).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if component.PackID != input.PackID {
			tx.Rollback()
			return nil, utils.InvalidArgument("variant %q does not belong to the ordered pack", variant.Name)
		}
		if chosen[component.ID] {
			tx.Rollback()
			return nil, utils.InvalidArgument("component %q allows only one variant per order", component.Name)
		}
		chosen[component.ID] = true

		var line models.DailyMenuVariant
		if err := tx.Where("daily_menu_id = ? AND variant_id = ?", menu.ID, sel.VariantID).First(&line).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("variant %q is not on this menu", variant.Name)
			}
			return nil, err
		}

		if err := s.stock.ReserveTx(tx, &menu, &service, sel.VariantID, 1); err != nil {
			tx.Rollback()
			return nil, err
		}

		items = append(items, models.OrderItem{
			DailyMenuVariantID: line.ID,
			VariantID:          variant.ID,
			ComponentID:        variant.ComponentID,
			VariantName:        line.VariantName,
			Quantity:           1,
		})
	}

	order := models.Order{
		BusinessID:      input.BusinessID,
		UserID:          input.UserID,
		ServiceID:       input.ServiceID,
		DailyMenuID:     menu.ID,
		DailyMenuPackID: menuPack.ID,
		PackID:          menuPack.PackID,
		PackName:        menuPack.PackName,
		PackPrice:       menuPack.PackPrice,
		Status:          models.OrderPlaced,
		Items:           items,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel releases the order's reservations and marks it cancelled. A locked
// menu keeps its ledger frozen, so cancellation fails after lock.
func (s *OrderService) Cancel(orderID uuid.UUID) (*models.Order, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var order models.Order
	if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("order not found")
		}
		return nil, err
	}
	if order.Status != models.OrderPlaced {
		tx.Rollback()
		return nil, utils.InvalidState("order is already %s", order.Status)
	}

	var menu models.DailyMenu
	if err := tx.First(&menu, "id = ?", order.DailyMenuID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range order.Items {
		if err := s.stock.ReleaseTx(tx, &menu, item.VariantID, item.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	order.Status = models.OrderCancelled
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) Get(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListForBusiness(businessID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("business_id = ?", businessID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
