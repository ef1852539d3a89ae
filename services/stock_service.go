// services/stock_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the single source of truth for how many units of a variant
// remain orderable on a given day. All mutation is frozen once the owning
// menu is LOCKED.
type StockService struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewStockService(db *gorm.DB, clock utils.Clock) *StockService {
	return &StockService{db: db, clock: clock}
}

const reserveRetries = 3

// Seed sets or resets a line's ceiling. The new quantity can never drop below
// what has already been consumed.
func (s *StockService) Seed(menuID, variantID uuid.UUID, quantity int) (*models.DailyMenuVariant, error) {
	if quantity < 0 {
		return nil, utils.InvalidArgument("stock quantity cannot be negative")
	}

	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status == models.MenuLocked {
		return nil, utils.MenuLocked("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	line, err := s.loadLine(menuID, variantID)
	if err != nil {
		return nil, err
	}

	consumed := line.Consumed()
	if quantity < consumed {
		return nil, utils.InvalidArgument("stock cannot be set below the %d units already consumed", consumed)
	}

	line.InitialStock = quantity
	line.Remaining = quantity - consumed
	if err := s.db.Save(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// Adjust applies a relative delta to a line's ceiling and remaining count
// (the admin quick-adjust buttons). The decrement-and-check is a single
// conditional update; remaining never drops below zero.
func (s *StockService) Adjust(menuID, variantID uuid.UUID, delta int) (*models.DailyMenuVariant, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status == models.MenuLocked {
		return nil, utils.MenuLocked("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	res := s.db.Model(&models.DailyMenuVariant{}).
		Where("daily_menu_id = ? AND variant_id = ?", menuID, variantID).
		Where("remaining + ? >= 0 AND initial_stock + ? >= 0", delta, delta).
		Updates(map[string]interface{}{
			"remaining":     gorm.Expr("remaining + ?", delta),
			"initial_stock": gorm.Expr("initial_stock + ?", delta),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.loadLine(menuID, variantID); err != nil {
			return nil, err
		}
		return nil, utils.InvalidArgument("adjustment would drop stock below zero")
	}
	return s.loadLine(menuID, variantID)
}

// Reserve claims qty units for an order. The decrement, the stock check and
// the menu-status check are one conditional statement, so concurrent
// reservations racing for the last unit cannot both succeed and a reservation
// cannot land after a lock commits.
func (s *StockService) Reserve(menuID, variantID uuid.UUID, qty int, svc *models.Service) error {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return err
	}
	return withRetry(func() error {
		return s.ReserveTx(s.db, menu, svc, variantID, qty)
	})
}

// ReserveTx is the reservation core, run inside the caller's transaction when
// order placement needs the reservation and the order row to commit together.
func (s *StockService) ReserveTx(tx *gorm.DB, menu *models.DailyMenu, svc *models.Service, variantID uuid.UUID, qty int) error {
	if qty <= 0 {
		return utils.InvalidArgument("quantity must be positive")
	}

	switch ResolveWindow(svc, menu.Date, s.clock.Now()) {
	case WindowNotYetOpen:
		return utils.OrderWindowClosed("ordering for %s has not opened yet", svc.Name)
	case WindowClosed:
		return utils.OrderWindowClosed("ordering for %s has closed", svc.Name)
	}

	res := tx.Model(&models.DailyMenuVariant{}).
		Where("daily_menu_id = ? AND variant_id = ? AND remaining >= ?", menu.ID, variantID, qty).
		Where("(SELECT status FROM daily_menus WHERE id = ?) = ?", menu.ID, string(models.MenuPublished)).
		UpdateColumn("remaining", gorm.Expr("remaining - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing was decremented; work out which precondition failed.
	var current models.DailyMenu
	if err := tx.First(&current, "id = ?", menu.ID).Error; err != nil {
		return err
	}
	if current.Status == models.MenuLocked {
		return utils.MenuLocked("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}
	if current.Status != models.MenuPublished {
		return utils.InvalidState("menu for %s is not published", menu.Date.Format(utils.DateLayout))
	}

	var line models.DailyMenuVariant
	if err := tx.Where("daily_menu_id = ? AND variant_id = ?", menu.ID, variantID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("variant is not on this menu")
		}
		return err
	}
	return utils.OutOfStock("%q is sold out", line.VariantName)
}

// Release reverses a reservation on order cancellation. Remaining never
// exceeds the seeded ceiling; a locked menu stays frozen.
func (s *StockService) Release(menuID, variantID uuid.UUID, qty int) error {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return err
	}
	return s.ReleaseTx(s.db, menu, variantID, qty)
}

func (s *StockService) ReleaseTx(tx *gorm.DB, menu *models.DailyMenu, variantID uuid.UUID, qty int) error {
	if qty <= 0 {
		return utils.InvalidArgument("quantity must be positive")
	}
	if menu.Status == models.MenuLocked {
		return utils.MenuLocked("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	res := tx.Model(&models.DailyMenuVariant{}).
		Where("daily_menu_id = ? AND variant_id = ?", menu.ID, variantID).
		UpdateColumn("remaining", gorm.Expr(
			"CASE WHEN remaining + ? > initial_stock THEN initial_stock ELSE remaining + ? END", qty, qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("variant is not on this menu")
	}
	return nil
}

func (s *StockService) loadLine(menuID, variantID uuid.UUID) (*models.DailyMenuVariant, error) {
	var line models.DailyMenuVariant
	if err := s.db.Where("daily_menu_id = ? AND variant_id = ?", menuID, variantID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("variant is not on this menu")
		}
		return nil, err
	}
	return &line, nil
}

// withRetry re-runs fn on transient storage contention. Expected domain
// errors are never retried; only lock timeouts and serialization failures
// are, with a small bound.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < reserveRetries; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return err
}

func isTransient(err error) bool {
	if utils.KindOf(err) != "" {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "serialization") ||
		strings.Contains(msg, "lock timeout")
}
