// services/publish_validator.go
package services

import (
	"fmt"

	"caterdesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidateMenu runs the advisory publish-time checks. It is strictly
// read-only: findings are returned as human-readable warnings for display and
// never block publishing, and nothing is persisted.
func ValidateMenu(db *gorm.DB, menu *models.DailyMenu) []string {
	warnings := []string{}

	var menuPacks []models.DailyMenuPack
	if err := db.Where("daily_menu_id = ?", menu.ID).Find(&menuPacks).Error; err != nil {
		return warnings
	}
	if len(menuPacks) == 0 {
		return warnings
	}

	var lines []models.DailyMenuVariant
	if err := db.Where("daily_menu_id = ?", menu.ID).Find(&lines).Error; err != nil {
		return warnings
	}
	lineByVariant := make(map[uuid.UUID]models.DailyMenuVariant, len(lines))
	for _, line := range lines {
		lineByVariant[line.VariantID] = line
	}

	packIDs := make([]uuid.UUID, 0, len(menuPacks))
	for _, mp := range menuPacks {
		packIDs = append(packIDs, mp.PackID)
	}

	for _, mp := range menuPacks {
		var components []models.Component
		if err := db.Where("pack_id = ? AND is_required = ?", mp.PackID, true).Find(&components).Error; err != nil {
			continue
		}
		for _, comp := range components {
			var variants []models.Variant
			if err := db.Where("component_id = ?", comp.ID).Find(&variants).Error; err != nil {
				continue
			}

			onMenu := 0
			active := 0
			remaining := 0
			for _, v := range variants {
				line, ok := lineByVariant[v.ID]
				if !ok {
					continue
				}
				onMenu++
				if v.IsActive {
					active++
					remaining += line.Remaining
				}
			}

			switch {
			case onMenu == 0:
				warnings = append(warnings, fmt.Sprintf(
					"pack %q: required component %q has no variants on this menu", mp.PackName, comp.Name))
			case active == 0:
				warnings = append(warnings, fmt.Sprintf(
					"pack %q: required component %q has no active variants", mp.PackName, comp.Name))
			case remaining == 0:
				warnings = append(warnings, fmt.Sprintf(
					"pack %q: required component %q has no remaining stock", mp.PackName, comp.Name))
			}
		}
	}

	var serviceCount int64
	if err := db.Model(&models.ServicePack{}).Where("pack_id IN ?", packIDs).Count(&serviceCount).Error; err == nil && serviceCount == 0 {
		warnings = append(warnings, "no service offers any pack on this menu; it will not be visible to businesses")
	}

	return warnings
}
