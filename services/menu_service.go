// services/menu_service.go
package services

import (
	"errors"
	"log"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuService owns the DRAFT -> PUBLISHED -> LOCKED lifecycle of daily menus
// and the packs/variants attached to them.
type MenuService struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewMenuService(db *gorm.DB, clock utils.Clock) *MenuService {
	return &MenuService{db: db, clock: clock}
}

// Create creates the DRAFT menu for a date. At most one menu exists per date.
func (s *MenuService) Create(date time.Time) (*models.DailyMenu, error) {
	date = utils.BeginningOfDay(date)

	var existing models.DailyMenu
	err := s.db.Where("date = ?", date).First(&existing).Error
	if err == nil {
		return nil, utils.Conflict("a daily menu already exists for %s", date.Format(utils.DateLayout))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	menu := models.DailyMenu{Date: date, Status: models.MenuDraft}
	if err := s.db.Create(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *MenuService) Get(menuID uuid.UUID) (*models.DailyMenu, error) {
	return loadMenu(s.db, menuID)
}

func (s *MenuService) GetByDate(date time.Time) (*models.DailyMenu, error) {
	var menu models.DailyMenu
	err := s.db.Preload("Packs").Preload("Variants").
		Where("date = ?", utils.BeginningOfDay(date)).First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("no daily menu for %s", date.Format(utils.DateLayout))
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *MenuService) List() ([]models.DailyMenu, error) {
	var menus []models.DailyMenu
	if err := s.db.Order("date DESC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// AttachPack attaches a pack to the menu, denormalizing its name and price.
// Late adds to an already published menu are allowed; locked menus are not.
func (s *MenuService) AttachPack(menuID, packID uuid.UUID) (*models.DailyMenuPack, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status == models.MenuLocked {
		return nil, utils.InvalidState("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	var pack models.Pack
	if err := s.db.First(&pack, "id = ?", packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("pack not found")
		}
		return nil, err
	}

	var existing models.DailyMenuPack
	if err := s.db.Where("daily_menu_id = ? AND pack_id = ?", menuID, packID).First(&existing).Error; err == nil {
		return nil, utils.Conflict("pack %q is already on this menu", pack.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	menuPack := models.DailyMenuPack{
		DailyMenuID: menuID,
		PackID:      packID,
		PackName:    pack.Name,
		PackPrice:   pack.Price,
	}
	if err := s.db.Create(&menuPack).Error; err != nil {
		return nil, err
	}
	return &menuPack, nil
}

// AttachVariant attaches a variant stock line. When initialStock is nil the
// catalog stockQuantity seeds the line. Stock must be positive to be
// orderable.
func (s *MenuService) AttachVariant(menuID, variantID uuid.UUID, initialStock *int) (*models.DailyMenuVariant, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status == models.MenuLocked {
		return nil, utils.InvalidState("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	var variant models.Variant
	if err := s.db.First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("variant not found")
		}
		return nil, err
	}

	stock := variant.StockQuantity
	if initialStock != nil {
		stock = *initialStock
	}
	if stock <= 0 {
		return nil, utils.InvalidArgument("stock quantity must be greater than 0")
	}

	var existing models.DailyMenuVariant
	if err := s.db.Where("daily_menu_id = ? AND variant_id = ?", menuID, variantID).First(&existing).Error; err == nil {
		return nil, utils.Conflict("variant %q is already on this menu", variant.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	line := models.DailyMenuVariant{
		DailyMenuID:  menuID,
		VariantID:    variantID,
		VariantName:  variant.Name,
		InitialStock: stock,
		Remaining:    stock,
	}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// Publish transitions the menu to PUBLISHED and returns the advisory
// warnings. Re-publishing a published menu is allowed and does not re-stamp
// publishedAt; validator findings never block the transition.
func (s *MenuService) Publish(menuID uuid.UUID) (*models.DailyMenu, []string, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, nil, err
	}
	if menu.Status == models.MenuLocked {
		return nil, nil, utils.InvalidState("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	warnings := ValidateMenu(s.db, menu)

	if menu.Status == models.MenuDraft {
		now := s.clock.Now()
		menu.Status = models.MenuPublished
		if menu.PublishedAt == nil {
			menu.PublishedAt = &now
		}
		if err := s.db.Save(menu).Error; err != nil {
			return nil, nil, err
		}
	}
	return menu, warnings, nil
}

// Lock freezes the menu and its stock ledger. Only published menus lock, and
// only once the latest configured service cutoff for the date has passed, so
// no service is still accepting orders. Terminal for the normal flow.
func (s *MenuService) Lock(menuID uuid.UUID) (*models.DailyMenu, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status != models.MenuPublished {
		return nil, utils.InvalidState("only a published menu can be locked (status %s)", menu.Status)
	}

	if cutoff, ok, err := s.governingCutoff(menu); err != nil {
		return nil, err
	} else if ok && s.clock.Now().Before(cutoff) {
		return nil, utils.TooEarly("menu cannot be locked before the %s cutoff", cutoff.Format("15:04"))
	}

	// Committed as a conditional update so a reservation in flight either
	// lands before the lock or observes LOCKED and fails.
	res := s.db.Model(&models.DailyMenu{}).
		Where("id = ? AND status = ?", menuID, models.MenuPublished).
		Update("status", models.MenuLocked)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.InvalidState("menu state changed concurrently; lock aborted")
	}
	menu.Status = models.MenuLocked
	return menu, nil
}

// governingCutoff is the latest cutoff among services offering any pack on
// this menu, on the menu's date. Services without a cutoff never close and do
// not gate locking; ok is false when no service carries a cutoff.
func (s *MenuService) governingCutoff(menu *models.DailyMenu) (time.Time, bool, error) {
	var menuPacks []models.DailyMenuPack
	if err := s.db.Where("daily_menu_id = ?", menu.ID).Find(&menuPacks).Error; err != nil {
		return time.Time{}, false, err
	}
	if len(menuPacks) == 0 {
		return time.Time{}, false, nil
	}
	packIDs := make([]uuid.UUID, 0, len(menuPacks))
	for _, mp := range menuPacks {
		packIDs = append(packIDs, mp.PackID)
	}

	var services []models.Service
	err := s.db.Joins("JOIN service_packs ON service_packs.service_id = services.id").
		Where("service_packs.pack_id IN ?", packIDs).
		Where("services.is_active = ?", true).
		Distinct("services.*").
		Find(&services).Error
	if err != nil {
		return time.Time{}, false, err
	}

	var latest time.Time
	found := false
	for _, svc := range services {
		if cutoff, ok := utils.AtClockTime(menu.Date, svc.CutoffTime); ok {
			if !found || cutoff.After(latest) {
				latest = cutoff
				found = true
			}
		}
	}
	return latest, found, nil
}

// Unlock is the audited administrative escape hatch back to PUBLISHED.
func (s *MenuService) Unlock(menuID uuid.UUID, actor string) (*models.DailyMenu, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status != models.MenuLocked {
		return nil, utils.InvalidState("menu is not locked")
	}
	menu.Status = models.MenuPublished
	if err := s.db.Save(menu).Error; err != nil {
		return nil, err
	}
	log.Printf("[AUDIT] menu %s for %s unlocked by %s", menu.ID, menu.Date.Format(utils.DateLayout), actor)
	return menu, nil
}

// Unpublish is the audited administrative escape hatch back to DRAFT.
func (s *MenuService) Unpublish(menuID uuid.UUID, actor string) (*models.DailyMenu, error) {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Status != models.MenuPublished {
		return nil, utils.InvalidState("only a published menu can be unpublished (status %s)", menu.Status)
	}
	menu.Status = models.MenuDraft
	if err := s.db.Save(menu).Error; err != nil {
		return nil, err
	}
	log.Printf("[AUDIT] menu %s for %s unpublished by %s", menu.ID, menu.Date.Format(utils.DateLayout), actor)
	return menu, nil
}

// DetachPack removes a pack from the menu. Not supported once any order
// references the pack.
func (s *MenuService) DetachPack(menuID, packID uuid.UUID) error {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return err
	}
	if menu.Status == models.MenuLocked {
		return utils.InvalidState("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	var menuPack models.DailyMenuPack
	if err := s.db.Where("daily_menu_id = ? AND pack_id = ?", menuID, packID).First(&menuPack).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("pack is not on this menu")
		}
		return err
	}

	var orderCount int64
	if err := s.db.Model(&models.Order{}).Where("daily_menu_pack_id = ?", menuPack.ID).Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount > 0 {
		return utils.Conflict("pack cannot be removed once orders reference it")
	}

	// Hard delete: a soft-deleted row would still occupy the unique
	// (menu, pack) index and block re-attaching.
	return s.db.Unscoped().Delete(&menuPack).Error
}

// DetachVariant removes a stock line. Not supported once any order item
// references it.
func (s *MenuService) DetachVariant(menuID, variantID uuid.UUID) error {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return err
	}
	if menu.Status == models.MenuLocked {
		return utils.InvalidState("menu for %s is locked", menu.Date.Format(utils.DateLayout))
	}

	var line models.DailyMenuVariant
	if err := s.db.Where("daily_menu_id = ? AND variant_id = ?", menuID, variantID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("variant is not on this menu")
		}
		return err
	}

	var itemCount int64
	if err := s.db.Model(&models.OrderItem{}).Where("daily_menu_variant_id = ?", line.ID).Count(&itemCount).Error; err != nil {
		return err
	}
	if itemCount > 0 {
		return utils.Conflict("variant cannot be removed once orders reference it")
	}

	return s.db.Unscoped().Delete(&line).Error
}

// Delete destroys a menu and its attached rows. Refused once any order
// exists for the menu.
func (s *MenuService) Delete(menuID uuid.UUID) error {
	menu, err := loadMenu(s.db, menuID)
	if err != nil {
		return err
	}

	var orderCount int64
	if err := s.db.Model(&models.Order{}).Where("daily_menu_id = ?", menuID).Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount > 0 {
		return utils.Conflict("menu has orders and cannot be deleted")
	}

	// Hard deletes throughout: the date and (menu, pack/variant) unique
	// indexes span soft-deleted rows, so keeping tombstones would block
	// re-creating the date later.
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Unscoped().Where("daily_menu_id = ?", menuID).Delete(&models.DailyMenuPack{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Where("daily_menu_id = ?", menuID).Delete(&models.DailyMenuVariant{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Delete(menu).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func loadMenu(db *gorm.DB, menuID uuid.UUID) (*models.DailyMenu, error) {
	var menu models.DailyMenu
	if err := db.First(&menu, "id = ?", menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("daily menu not found")
		}
		return nil, err
	}
	return &menu, nil
}
