package services

import (
	"sync"
	"testing"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedResetsCeilingButNotConsumption(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	stock := NewStockService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 5)

	require.NoError(t, stock.Reserve(menu.ID, f.lentil.ID, 2, f.service))

	line, err := stock.Seed(menu.ID, f.lentil.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, line.InitialStock)
	assert.Equal(t, 8, line.Remaining)
	assert.Equal(t, 2, line.Consumed())

	// Cannot seed below what has been consumed.
	_, err = stock.Seed(menu.ID, f.lentil.ID, 1)
	assert.Equal(t, utils.KindInvalidArgument, utils.KindOf(err))
}

func TestAdjustQuickButtons(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	stock := NewStockService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 5)

	line, err := stock.Adjust(menu.ID, f.lentil.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, line.InitialStock)
	assert.Equal(t, 15, line.Remaining)

	line, err = stock.Adjust(menu.ID, f.lentil.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 14, line.Remaining)

	// Below zero is rejected, state untouched.
	_, err = stock.Adjust(menu.ID, f.lentil.ID, -20)
	assert.Equal(t, utils.KindInvalidArgument, utils.KindOf(err))
	assert.Equal(t, 14, f.line(t, menu.ID, f.lentil.ID).Remaining)

	_, err = stock.Adjust(menu.ID, f.chicken.ID, 1)
	assert.NoError(t, err)
}

func TestReserveDecrementsUntilSoldOut(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	stock := NewStockService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 3)

	for i := 0; i < 3; i++ {
		require.NoError(t, stock.Reserve(menu.ID, f.lentil.ID, 1, f.service))
	}
	err := stock.Reserve(menu.ID, f.lentil.ID, 1, f.service)
	assert.Equal(t, utils.KindOutOfStock, utils.KindOf(err))
	assert.Equal(t, 0, f.line(t, menu.ID, f.lentil.ID).Remaining)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	stock := NewStockService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 3)

	const attempts = 5
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- stock.Reserve(menu.ID, f.lentil.ID, 1, f.service)
		}()
	}
	wg.Wait()
	close(results)

	succeeded, soldOut := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case utils.KindOf(err) == utils.KindOutOfStock:
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, soldOut)
	assert.Equal(t, 0, f.line(t, menu.ID, f.lentil.ID).Remaining)
}

func TestReserveRespectsWindow(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	menuClock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	menu := f.publishedMenu(t, menuClock, mustDate(t, "2025-03-10"), 3)

	early := NewStockService(db, utils.FixedClock{T: at(t, "2025-03-10", "07:00")})
	err := early.Reserve(menu.ID, f.lentil.ID, 1, f.service)
	assert.Equal(t, utils.KindOrderWindowClosed, utils.KindOf(err))

	late := NewStockService(db, utils.FixedClock{T: at(t, "2025-03-10", "14:30")})
	err = late.Reserve(menu.ID, f.lentil.ID, 1, f.service)
	assert.Equal(t, utils.KindOrderWindowClosed, utils.KindOf(err))

	assert.Equal(t, 3, f.line(t, menu.ID, f.lentil.ID).Remaining)
}

func TestLockedMenuFreezesLedger(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "15:00")}
	menus := NewMenuService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 3)
	_, err := menus.Lock(menu.ID)
	require.NoError(t, err)

	// A no-cutoff service keeps its window open, so the reservation reaches
	// the ledger and must fail on the lock, not the window.
	openEnd := &models.Service{Name: "Open End", IsActive: true}
	require.NoError(t, db.Create(openEnd).Error)

	stock := NewStockService(db, clock)
	err = stock.Reserve(menu.ID, f.lentil.ID, 1, openEnd)
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))

	_, err = stock.Adjust(menu.ID, f.lentil.ID, 1)
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))

	_, err = stock.Seed(menu.ID, f.lentil.ID, 10)
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))

	err = stock.Release(menu.ID, f.lentil.ID, 1)
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))
}

func TestReleaseNeverExceedsCeiling(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", "10:00")}
	stock := NewStockService(db, clock)

	menu := f.publishedMenu(t, clock, mustDate(t, "2025-03-10"), 3)

	require.NoError(t, stock.Reserve(menu.ID, f.lentil.ID, 2, f.service))
	require.NoError(t, stock.Release(menu.ID, f.lentil.ID, 1))
	assert.Equal(t, 2, f.line(t, menu.ID, f.lentil.ID).Remaining)

	// Releasing more than was reserved clamps at the seeded ceiling.
	require.NoError(t, stock.Release(menu.ID, f.lentil.ID, 5))
	assert.Equal(t, 3, f.line(t, menu.ID, f.lentil.ID).Remaining)
}
