package services

import (
	"testing"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderEnv struct {
	db     *gorm.DB
	f      *fixture
	menus  *MenuService
	stock  *StockService
	subs   *SubscriptionService
	orders *OrderService
	menu   *models.DailyMenu
	date   time.Time
}

// newOrderEnv wires the full placement stack at the given wall-clock time with
// a published menu for the day and an active subscription on the fixture pack.
func newOrderEnv(t *testing.T, hhmm string) *orderEnv {
	t.Helper()

	db := newTestDB(t)
	f := newFixture(t, db)
	clock := utils.FixedClock{T: at(t, "2025-03-10", hhmm)}

	stock := NewStockService(db, clock)
	subs := NewSubscriptionService(db, clock)

	menuClock := utils.FixedClock{T: at(t, "2025-03-10", "06:00")}
	menu := f.publishedMenu(t, menuClock, mustDate(t, "2025-03-10"), 5)

	_, err := subs.Activate(f.business.ID, f.service.ID, f.pack.ID)
	require.NoError(t, err)

	return &orderEnv{
		db:     db,
		f:      f,
		menus:  NewMenuService(db, clock),
		stock:  stock,
		subs:   subs,
		orders: NewOrderService(db, clock, stock, subs),
		menu:   menu,
		date:   mustDate(t, "2025-03-10"),
	}
}

func (e *orderEnv) input(selections ...OrderSelection) PlaceOrderInput {
	return PlaceOrderInput{
		BusinessID: e.f.business.ID,
		UserID:     uuid.New(),
		ServiceID:  e.f.service.ID,
		PackID:     e.f.pack.ID,
		Date:       e.date,
		Selections: selections,
	}
}

func TestPlaceOrderReservesAndDenormalizes(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	order, err := e.orders.Place(e.input(
		OrderSelection{VariantID: e.f.lentil.ID},
		OrderSelection{VariantID: e.f.chicken.ID},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderPlaced, order.Status)
	assert.Equal(t, "Standard", order.PackName)
	assert.Equal(t, 12.00, order.PackPrice)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Lentil Soup", order.Items[0].VariantName)

	assert.Equal(t, 4, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
	assert.Equal(t, 4, e.f.line(t, e.menu.ID, e.f.chicken.ID).Remaining)
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.tomato.ID).Remaining)
}

func TestPlaceOrderRequiresOpenWindow(t *testing.T) {
	for _, tc := range []struct {
		name string
		hhmm string
	}{
		{"before start", "07:30"},
		{"after cutoff", "14:01"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newOrderEnv(t, tc.hhmm)
			_, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
			assert.Equal(t, utils.KindOrderWindowClosed, utils.KindOf(err))
			assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
		})
	}
}

func TestPlaceOrderRejectsUnentitledPack(t *testing.T) {
	e := newOrderEnv(t, "10:00")
	premium := premiumPack(t, e.db, e.f)

	in := e.input(OrderSelection{VariantID: e.f.lentil.ID})
	in.PackID = premium.ID
	_, err := e.orders.Place(in)
	assert.Equal(t, utils.KindInvalidArgument, utils.KindOf(err))
}

func TestPlaceOrderRejectsWithoutSubscription(t *testing.T) {
	e := newOrderEnv(t, "10:00")
	require.NoError(t, e.subs.Deactivate(e.f.business.ID, e.f.service.ID))

	_, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestPlaceOrderFailsAtomically(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	_, err := e.stock.Seed(e.menu.ID, e.f.chicken.ID, 0)
	require.NoError(t, err)

	_, err = e.orders.Place(e.input(
		OrderSelection{VariantID: e.f.lentil.ID},
		OrderSelection{VariantID: e.f.chicken.ID},
	))
	assert.Equal(t, utils.KindOutOfStock, utils.KindOf(err))

	// The lentil reservation from the failed attempt rolled back with it.
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)

	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderRejectsLockedMenu(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	require.NoError(t, e.db.Model(&models.DailyMenu{}).
		Where("id = ?", e.menu.ID).Update("status", models.MenuLocked).Error)

	_, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))
}

func TestPlaceOrderUsesActivePackDespitePendingSwitch(t *testing.T) {
	e := newOrderEnv(t, "10:00")
	premium := premiumPack(t, e.db, e.f)

	_, err := e.subs.ChangePack(e.f.business.ID, e.f.service.ID, premium.ID, nil)
	require.NoError(t, err)

	// Today's order still resolves to the current pack.
	order, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
	require.NoError(t, err)
	assert.Equal(t, e.f.pack.ID, order.PackID)
}

func TestCancelOrderReleasesStock(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	order, err := e.orders.Place(e.input(
		OrderSelection{VariantID: e.f.lentil.ID},
		OrderSelection{VariantID: e.f.chicken.ID},
	))
	require.NoError(t, err)

	cancelled, err := e.orders.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.chicken.ID).Remaining)

	// Cancelling twice neither double-releases nor succeeds.
	_, err = e.orders.Cancel(order.ID)
	assert.Equal(t, utils.KindInvalidState, utils.KindOf(err))
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
}

func TestCancelOrderRejectedAfterLock(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	order, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
	require.NoError(t, err)

	lockClock := utils.FixedClock{T: at(t, "2025-03-10", "15:00")}
	menus := NewMenuService(e.db, lockClock)
	_, err = menus.Lock(e.menu.ID)
	require.NoError(t, err)

	_, err = e.orders.Cancel(order.ID)
	assert.Equal(t, utils.KindMenuLocked, utils.KindOf(err))

	got, err := e.orders.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, got.Status)
}

func TestListForBusinessNewestFirst(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	first, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.lentil.ID}))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := e.orders.Place(e.input(OrderSelection{VariantID: e.f.tomato.ID}))
	require.NoError(t, err)

	orders, err := e.orders.ListForBusiness(e.f.business.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestPlaceOrderRejectsVariantFromAnotherPack(t *testing.T) {
	e := newOrderEnv(t, "10:00")
	premium := premiumPack(t, e.db, e.f)

	dessert := &models.Component{PackID: premium.ID, Name: "Dessert", IsRequired: true}
	require.NoError(t, e.db.Create(dessert).Error)
	baklava := &models.Variant{ComponentID: dessert.ID, Name: "Baklava", StockQuantity: 10, IsActive: true}
	require.NoError(t, e.db.Create(baklava).Error)

	// The business orders the Standard pack; a variant from the Premium
	// pack's component is not a legal selection for it.
	_, err := e.orders.Place(e.input(
		OrderSelection{VariantID: e.f.lentil.ID},
		OrderSelection{VariantID: baklava.ID},
	))
	assert.Equal(t, utils.KindInvalidArgument, utils.KindOf(err))
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
}

func TestPlaceOrderRejectsTwoVariantsFromOneComponent(t *testing.T) {
	e := newOrderEnv(t, "10:00")

	_, err := e.orders.Place(e.input(
		OrderSelection{VariantID: e.f.lentil.ID},
		OrderSelection{VariantID: e.f.tomato.ID},
	))
	assert.Equal(t, utils.KindInvalidArgument, utils.KindOf(err))
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.lentil.ID).Remaining)
	assert.Equal(t, 5, e.f.line(t, e.menu.ID, e.f.tomato.ID).Remaining)
}
