package services

import (
	"testing"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newScheduler(db *gorm.DB, clock utils.Clock) *Scheduler {
	return NewScheduler(db, clock, NewMenuService(db, clock), NewSubscriptionService(db, clock))
}

func menuStatus(t *testing.T, db *gorm.DB, id interface{}) models.MenuStatus {
	t.Helper()
	var menu models.DailyMenu
	require.NoError(t, db.First(&menu, "id = ?", id).Error)
	return menu.Status
}

func TestAutoLockWaitsForCutoff(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	menuClock := utils.FixedClock{T: at(t, "2025-03-10", "06:00")}
	menu := f.publishedMenu(t, menuClock, mustDate(t, "2025-03-10"), 5)

	before := newScheduler(db, utils.FixedClock{T: at(t, "2025-03-10", "12:00")})
	before.AutoLockDueMenus()
	assert.Equal(t, models.MenuPublished, menuStatus(t, db, menu.ID))

	after := newScheduler(db, utils.FixedClock{T: at(t, "2025-03-10", "14:05")})
	after.AutoLockDueMenus()
	assert.Equal(t, models.MenuLocked, menuStatus(t, db, menu.ID))
}

func TestAutoLockLeavesOpenEndedMenusUntilDatePasses(t *testing.T) {
	db := newTestDB(t)
	newFixture(t, db)
	menuClock := utils.FixedClock{T: at(t, "2025-03-10", "06:00")}
	menus := NewMenuService(db, menuClock)

	// A menu offered only through a service with no cutoff: its window
	// never closes, so the sweep must not touch it on its own day.
	pack := &models.Pack{Name: "All Day", Price: 10.00, IsActive: true}
	require.NoError(t, db.Create(pack).Error)
	openEnd := &models.Service{Name: "Open End", IsActive: true, IsPublished: true, OrderStartTime: "08:00"}
	require.NoError(t, db.Create(openEnd).Error)
	require.NoError(t, db.Create(&models.ServicePack{ServiceID: openEnd.ID, PackID: pack.ID}).Error)

	menu, err := menus.Create(mustDate(t, "2025-03-10"))
	require.NoError(t, err)
	_, err = menus.AttachPack(menu.ID, pack.ID)
	require.NoError(t, err)
	_, _, err = menus.Publish(menu.ID)
	require.NoError(t, err)

	sameDay := newScheduler(db, utils.FixedClock{T: at(t, "2025-03-10", "10:00")})
	sameDay.AutoLockDueMenus()
	assert.Equal(t, models.MenuPublished, menuStatus(t, db, menu.ID))

	// Manual lock stays available all day.
	evening := NewMenuService(db, utils.FixedClock{T: at(t, "2025-03-10", "22:00")})
	_, err = evening.Lock(menu.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.DailyMenu{}).
		Where("id = ?", menu.ID).Update("status", models.MenuPublished).Error)

	nextDay := newScheduler(db, utils.FixedClock{T: at(t, "2025-03-11", "00:10")})
	nextDay.AutoLockDueMenus()
	assert.Equal(t, models.MenuLocked, menuStatus(t, db, menu.ID))
}
