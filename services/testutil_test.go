package services

import (
	"testing"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. A single connection keeps
// sqlite's locking out of the way while the conditional updates under test
// still decide every race.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Pack{},
		&models.Component{},
		&models.Variant{},
		&models.Service{},
		&models.ServicePack{},
		&models.BusinessService{},
		&models.BusinessServicePack{},
		&models.DailyMenu{},
		&models.DailyMenuPack{},
		&models.DailyMenuVariant{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

// at builds an instant on the given date at HH:MM UTC.
func at(t *testing.T, date string, hhmm string) time.Time {
	t.Helper()
	instant, ok := utils.AtClockTime(mustDate(t, date), hhmm)
	require.True(t, ok)
	return instant
}

type fixture struct {
	db       *gorm.DB
	pack     *models.Pack
	soup     *models.Component
	main     *models.Component
	lentil   *models.Variant
	tomato   *models.Variant
	chicken  *models.Variant
	service  *models.Service
	business *models.Business
}

// newFixture seeds a catalog: pack "Standard" with a required Soup component
// (Lentil Soup, Tomato Soup) and a required Main component (Grilled Chicken),
// a "Lunch" service offering the pack between 08:00 and 14:00, and one
// business.
func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	pack := &models.Pack{Name: "Standard", Price: 12.00, IsActive: true}
	require.NoError(t, db.Create(pack).Error)

	soup := &models.Component{PackID: pack.ID, Name: "Soup", IsRequired: true}
	require.NoError(t, db.Create(soup).Error)
	main := &models.Component{PackID: pack.ID, Name: "Main", IsRequired: true}
	require.NoError(t, db.Create(main).Error)

	lentil := &models.Variant{ComponentID: soup.ID, Name: "Lentil Soup", StockQuantity: 10, IsActive: true}
	require.NoError(t, db.Create(lentil).Error)
	tomato := &models.Variant{ComponentID: soup.ID, Name: "Tomato Soup", StockQuantity: 8, IsActive: true}
	require.NoError(t, db.Create(tomato).Error)
	chicken := &models.Variant{ComponentID: main.ID, Name: "Grilled Chicken", StockQuantity: 15, IsActive: true}
	require.NoError(t, db.Create(chicken).Error)

	service := &models.Service{
		Name:           "Lunch",
		IsActive:       true,
		IsPublished:    true,
		OrderStartTime: "08:00",
		CutoffTime:     "14:00",
	}
	require.NoError(t, db.Create(service).Error)
	require.NoError(t, db.Create(&models.ServicePack{ServiceID: service.ID, PackID: pack.ID}).Error)

	business := &models.Business{Name: "Acme Corp", IsActive: true}
	require.NoError(t, db.Create(business).Error)

	return &fixture{
		db:       db,
		pack:     pack,
		soup:     soup,
		main:     main,
		lentil:   lentil,
		tomato:   tomato,
		chicken:  chicken,
		service:  service,
		business: business,
	}
}

// publishedMenu creates a menu for the date with the fixture pack and all
// three variants attached, then publishes it.
func (f *fixture) publishedMenu(t *testing.T, clock utils.Clock, date time.Time, stock int) *models.DailyMenu {
	t.Helper()

	menus := NewMenuService(f.db, clock)
	menu, err := menus.Create(date)
	require.NoError(t, err)

	_, err = menus.AttachPack(menu.ID, f.pack.ID)
	require.NoError(t, err)
	for _, v := range []*models.Variant{f.lentil, f.tomato, f.chicken} {
		_, err = menus.AttachVariant(menu.ID, v.ID, &stock)
		require.NoError(t, err)
	}

	menu, _, err = menus.Publish(menu.ID)
	require.NoError(t, err)
	return menu
}

func (f *fixture) line(t *testing.T, menuID, variantID interface{}) *models.DailyMenuVariant {
	t.Helper()
	var line models.DailyMenuVariant
	require.NoError(t, f.db.Where("daily_menu_id = ? AND variant_id = ?", menuID, variantID).First(&line).Error)
	return &line
}
