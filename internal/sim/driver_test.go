package sim

import (
	"testing"
	"time"

	"ecomsim/config"
	"ecomsim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.StartDate = cfg.Simulation.EndDate.AddDate(0, 0, 1)

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunTwoDayScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.StartDate = time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.EndDate = time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.TotalCustomers = 10
	cfg.Simulation.TotalItems = 5
	cfg.Simulation.Seed = 42
	cfg.Simulation.PromotionDates = nil
	cfg.Orders.DailyRange = config.IntRange{Min: 5, Max: 5}
	cfg.Coupons.DailyRange = config.IntRange{Min: 0, Max: 0}
	cfg.Messages.DailyRange = config.IntRange{Min: 3, Max: 3}

	simulator, err := New(cfg)
	require.NoError(t, err)

	ds := simulator.Run()

	require.Len(t, ds.Orders, 10)
	for i, o := range ds.Orders {
		assert.Equal(t, int64(i+1), o.ID)
		assert.Equal(t, models.CouponTypeNone, o.CouponType)
		assert.Equal(t, models.FlagNo, o.IsCouponUsed)
	}
	assert.Equal(t, cfg.Simulation.StartDate, ds.Orders[0].Date)
	assert.Equal(t, cfg.Simulation.EndDate, ds.Orders[9].Date)

	// Item table carries every item once per day.
	assert.Len(t, ds.Items, 10)

	// No coupons configured, none emitted.
	assert.Empty(t, ds.Coupons)

	// Message ids are globally unique and sequential across days.
	for i, m := range ds.Messages {
		assert.Equal(t, int64(i+1), m.ID)
	}
}

func TestRunDeterministicWithSameSeed(t *testing.T) {
	build := func() *models.Dataset {
		cfg := config.Default()
		cfg.Simulation.StartDate = time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
		cfg.Simulation.EndDate = time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC)
		cfg.Simulation.TotalCustomers = 20
		cfg.Simulation.TotalItems = 8
		cfg.Simulation.Seed = 99
		cfg.Orders.DailyRange = config.IntRange{Min: 4, Max: 8}
		cfg.Coupons.DailyRange = config.IntRange{Min: 2, Max: 4}
		cfg.Messages.DailyRange = config.IntRange{Min: 2, Max: 4}

		simulator, err := New(cfg)
		require.NoError(t, err)
		return simulator.Run()
	}

	a := build()
	b := build()
	assert.Equal(t, a.Orders, b.Orders)
	assert.Equal(t, a.Behaviors, b.Behaviors)
	assert.Equal(t, a.Customers, b.Customers)
	assert.Equal(t, a.Items, b.Items)
	assert.Equal(t, a.Messages, b.Messages)
	assert.Equal(t, a.Coupons, b.Coupons)
}

func TestRunCouponLifecycle(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.StartDate = time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.EndDate = time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.TotalCustomers = 30
	cfg.Simulation.TotalItems = 10
	cfg.Simulation.Seed = 42
	cfg.Orders.DailyRange = config.IntRange{Min: 8, Max: 8}
	cfg.Coupons.DailyRange = config.IntRange{Min: 10, Max: 15}
	cfg.Coupons.UsageRateRange = config.FloatRange{Min: 1, Max: 1}
	cfg.Messages.DailyRange = config.IntRange{Min: 2, Max: 4}

	simulator, err := New(cfg)
	require.NoError(t, err)
	ds := simulator.Run()

	require.NotEmpty(t, ds.Coupons)

	// Once used, a coupon never reverts in any later day's snapshot, and no
	// two used coupons share an order.
	lastStatus := make(map[string]string)
	lastDay := ds.Coupons[0].Date
	for _, state := range ds.Coupons {
		prev, ok := lastStatus[state.Coupon.ID]
		if ok && prev == models.CouponStatusUsed {
			assert.Equal(t, models.CouponStatusUsed, state.Coupon.Status)
		}
		if ok && prev == models.CouponStatusExpired {
			assert.NotEqual(t, models.CouponStatusAvailable, state.Coupon.Status)
		}
		lastStatus[state.Coupon.ID] = state.Coupon.Status
		if state.Date.After(lastDay) {
			lastDay = state.Date
		}
	}

	usedOrders := make(map[int64]string)
	for _, state := range ds.Coupons {
		if state.Date != lastDay || state.Coupon.Status != models.CouponStatusUsed {
			continue
		}
		if prev, ok := usedOrders[state.Coupon.UsedOrderID]; ok {
			assert.Equal(t, prev, state.Coupon.ID, "order %d consumed two coupons", state.Coupon.UsedOrderID)
		}
		usedOrders[state.Coupon.UsedOrderID] = state.Coupon.ID
	}
	require.NotEmpty(t, usedOrders, "forced usage rate should consume coupons")

	// Every used coupon points at a real order that points back at it.
	ordersByID := make(map[int64]models.Order)
	for _, o := range ds.Orders {
		ordersByID[o.ID] = o
	}
	for orderID, couponID := range usedOrders {
		o, ok := ordersByID[orderID]
		require.True(t, ok, "coupon %s references unknown order %d", couponID, orderID)
		assert.Equal(t, couponID, o.CouponID)
		assert.Equal(t, models.FlagYes, o.IsCouponUsed)
		assert.LessOrEqual(t, o.ActualAmount, float64(o.DiscountedPrice))
		assert.GreaterOrEqual(t, o.ActualAmount, 0.01)
	}
}

func TestRunOrdersCntMonotonic(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.StartDate = time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.EndDate = time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)
	cfg.Simulation.TotalCustomers = 15
	cfg.Simulation.TotalItems = 8
	cfg.Simulation.Seed = 7
	cfg.Orders.DailyRange = config.IntRange{Min: 5, Max: 10}
	cfg.Coupons.DailyRange = config.IntRange{Min: 2, Max: 5}
	cfg.Messages.DailyRange = config.IntRange{Min: 2, Max: 4}

	simulator, err := New(cfg)
	require.NoError(t, err)
	ds := simulator.Run()

	lastCnt := make(map[int64]int)
	lastOpen := make(map[int64]time.Time)
	for _, row := range ds.Customers {
		assert.GreaterOrEqual(t, row.OrdersCnt, lastCnt[row.CustomerID])
		lastCnt[row.CustomerID] = row.OrdersCnt

		if open, ok := lastOpen[row.CustomerID]; ok {
			assert.Equal(t, open, row.OpenDate, "open_date changed for customer %d", row.CustomerID)
		}
		lastOpen[row.CustomerID] = row.OpenDate
		assert.False(t, row.OpenDate.After(row.Date))
	}
}
