package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Simulation.StartDate.Before(cfg.Simulation.EndDate))
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
}

func TestValidateRejectsInvertedDates(t *testing.T) {
	cfg := Default()
	cfg.Simulation.StartDate = mustDate("2025-12-05")
	cfg.Simulation.EndDate = mustDate("2025-12-01")
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}

func TestValidateRejectsEmptyPool(t *testing.T) {
	cfg := Default()
	cfg.Pools.Channels = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channels")
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cfg := Default()
	cfg.Orders.DailyRange = IntRange{Min: 10, Max: 5}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Coupons.CashRange = IntRange{Min: -1, Max: 5}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Coupons.UsageRateRange = FloatRange{Min: 0.5, Max: 1.5}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Coupons.TypeRatio = 1.2
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositivePopulations(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TotalCustomers = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Simulation.TotalItems = -3
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SIM_START_DATE", "2026-01-01")
	t.Setenv("SIM_END_DATE", "2026-01-10")
	t.Setenv("SIM_SEED", "7")
	t.Setenv("SIM_PROMOTION_DATES", "2026-01-05, 2026-01-06")
	t.Setenv("DAILY_ORDERS_RANGE", "3,9")
	t.Setenv("POOL_CHANNELS", "app")
	t.Setenv("COUPON_DISCOUNT_RATES", "0.7,0.75")
	t.Setenv("ALLOW_REPEAT_MESSAGES", "true")

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, mustDate("2026-01-01"), cfg.Simulation.StartDate)
	assert.Equal(t, mustDate("2026-01-10"), cfg.Simulation.EndDate)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, []time.Time{mustDate("2026-01-05"), mustDate("2026-01-06")}, cfg.Simulation.PromotionDates)
	assert.Equal(t, IntRange{Min: 3, Max: 9}, cfg.Orders.DailyRange)
	assert.Equal(t, []string{"app"}, cfg.Pools.Channels)
	assert.Equal(t, []float64{0.7, 0.75}, cfg.Coupons.DiscountRates)
	assert.True(t, cfg.Messages.AllowRepeats)
	require.NoError(t, cfg.Validate())
}

func TestLoadKeepsDefaultsOnMalformedValues(t *testing.T) {
	t.Setenv("SIM_TOTAL_CUSTOMERS", "lots")
	t.Setenv("DAILY_ORDERS_RANGE", "5")
	t.Setenv("COUPON_TYPE_RATIO", "half")

	def := Default()
	cfg := Load()
	assert.Equal(t, def.Simulation.TotalCustomers, cfg.Simulation.TotalCustomers)
	assert.Equal(t, def.Orders.DailyRange, cfg.Orders.DailyRange)
	assert.Equal(t, def.Coupons.TypeRatio, cfg.Coupons.TypeRatio)
}
