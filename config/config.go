package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

type Config struct {
	Env        string
	OutputDir  string
	Simulation SimulationConfig
	Pools      PoolConfig
	Orders     OrderConfig
	Behavior   BehaviorConfig
	Messages   MessageConfig
	Coupons    CouponConfig
}

type SimulationConfig struct {
	StartDate      time.Time
	EndDate        time.Time
	TotalCustomers int
	TotalItems     int
	Seed           int64
	PromotionDates []time.Time
}

// PoolConfig holds the categorical value pools the engines draw from.
type PoolConfig struct {
	Channels        []string
	Categories      []string
	AppPages        []string
	EntryPages      []string
	ActionTypes     []string
	DeviceTypes     []string
	Regions         []string
	LocationCities  []string
	IPCities        []string
	CityTiers       []int
	LTVTiers        []string
	Origins         []string
	MessageChannels []string
}

type OrderConfig struct {
	DailyRange IntRange
}

type BehaviorConfig struct {
	// NonOrderingRatio sizes the non-ordering active sample as a percentage
	// of the ordering customer count.
	NonOrderingRatio int
}

type MessageConfig struct {
	DailyRange   IntRange
	AllowRepeats bool
}

type CouponConfig struct {
	DailyRange     IntRange
	ValidDays      int
	CashRange      IntRange
	DiscountRates  []float64
	TypeRatio      float64
	UsageRateRange FloatRange
}

type IntRange struct {
	Min int
	Max int
}

type FloatRange struct {
	Min float64
	Max float64
}

// Default returns the built-in configuration used when no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Env:       "development",
		OutputDir: "work_dataset",
		Simulation: SimulationConfig{
			StartDate:      mustDate("2025-11-25"),
			EndDate:        mustDate("2025-12-01"),
			TotalCustomers: 250,
			TotalItems:     20,
			Seed:           42,
		},
		Pools: PoolConfig{
			Channels:        []string{"app", "web"},
			Categories:      []string{"clothing", "electronics", "food"},
			AppPages:        []string{"home_page", "product_page", "search_page", "profile_page", "cart_page"},
			EntryPages:      []string{"home_page"},
			ActionTypes:     []string{"click", "scroll", "input", "swipe", "tap"},
			DeviceTypes:     []string{"mobile", "tablet", "desktop"},
			Regions:         []string{"east", "south", "north", "southwest"},
			LocationCities:  []string{"shanghai", "shenzhen", "beijing", "chengdu", "hangzhou", "guangzhou", "nanjing", "wuhan", "xian", "chongqing"},
			IPCities:        []string{"shanghai", "shenzhen", "beijing", "chengdu", "hangzhou", "guangzhou", "nanjing", "wuhan", "suzhou", "tianjin"},
			CityTiers:       []int{1, 2, 3, 4, 5},
			LTVTiers:        []string{"A", "B", "C"},
			Origins:         []string{"zhejiang", "guangdong", "jiangsu", "fujian", "shandong"},
			MessageChannels: []string{"sms", "phone"},
		},
		Orders: OrderConfig{
			DailyRange: IntRange{Min: 20, Max: 40},
		},
		Behavior: BehaviorConfig{
			NonOrderingRatio: 15,
		},
		Messages: MessageConfig{
			DailyRange:   IntRange{Min: 20, Max: 40},
			AllowRepeats: false,
		},
		Coupons: CouponConfig{
			DailyRange:     IntRange{Min: 80, Max: 120},
			ValidDays:      7,
			CashRange:      IntRange{Min: 5, Max: 50},
			DiscountRates:  []float64{0.8, 0.85, 0.9},
			TypeRatio:      0.5,
			UsageRateRange: FloatRange{Min: 0.2, Max: 0.4},
		},
	}
}

// Load builds the configuration from defaults overridden by environment
// variables. A .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()

	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)

	cfg.Simulation.StartDate = getEnvDate("SIM_START_DATE", cfg.Simulation.StartDate)
	cfg.Simulation.EndDate = getEnvDate("SIM_END_DATE", cfg.Simulation.EndDate)
	cfg.Simulation.TotalCustomers = getEnvInt("SIM_TOTAL_CUSTOMERS", cfg.Simulation.TotalCustomers)
	cfg.Simulation.TotalItems = getEnvInt("SIM_TOTAL_ITEMS", cfg.Simulation.TotalItems)
	cfg.Simulation.Seed = getEnvInt64("SIM_SEED", cfg.Simulation.Seed)
	cfg.Simulation.PromotionDates = getEnvDates("SIM_PROMOTION_DATES", cfg.Simulation.PromotionDates)

	cfg.Pools.Channels = getEnvList("POOL_CHANNELS", cfg.Pools.Channels)
	cfg.Pools.Categories = getEnvList("POOL_CATEGORIES", cfg.Pools.Categories)
	cfg.Pools.AppPages = getEnvList("POOL_APP_PAGES", cfg.Pools.AppPages)
	cfg.Pools.EntryPages = getEnvList("POOL_ENTRY_PAGES", cfg.Pools.EntryPages)
	cfg.Pools.ActionTypes = getEnvList("POOL_ACTION_TYPES", cfg.Pools.ActionTypes)
	cfg.Pools.DeviceTypes = getEnvList("POOL_DEVICE_TYPES", cfg.Pools.DeviceTypes)
	cfg.Pools.Regions = getEnvList("POOL_REGIONS", cfg.Pools.Regions)
	cfg.Pools.LocationCities = getEnvList("POOL_LOCATION_CITIES", cfg.Pools.LocationCities)
	cfg.Pools.IPCities = getEnvList("POOL_IP_CITIES", cfg.Pools.IPCities)
	cfg.Pools.CityTiers = getEnvIntList("POOL_CITY_TIERS", cfg.Pools.CityTiers)
	cfg.Pools.LTVTiers = getEnvList("POOL_LTV_TIERS", cfg.Pools.LTVTiers)
	cfg.Pools.Origins = getEnvList("POOL_ORIGINS", cfg.Pools.Origins)
	cfg.Pools.MessageChannels = getEnvList("POOL_MESSAGE_CHANNELS", cfg.Pools.MessageChannels)

	cfg.Orders.DailyRange = getEnvIntRange("DAILY_ORDERS_RANGE", cfg.Orders.DailyRange)
	cfg.Behavior.NonOrderingRatio = getEnvInt("NON_ORDERING_RATIO", cfg.Behavior.NonOrderingRatio)

	cfg.Messages.DailyRange = getEnvIntRange("DAILY_MESSAGE_COUNT_RANGE", cfg.Messages.DailyRange)
	cfg.Messages.AllowRepeats = getEnvBool("ALLOW_REPEAT_MESSAGES", cfg.Messages.AllowRepeats)

	cfg.Coupons.DailyRange = getEnvIntRange("DAILY_COUPON_COUNT_RANGE", cfg.Coupons.DailyRange)
	cfg.Coupons.ValidDays = getEnvInt("COUPON_VALID_DAYS", cfg.Coupons.ValidDays)
	cfg.Coupons.CashRange = getEnvIntRange("COUPON_CASH_RANGE", cfg.Coupons.CashRange)
	cfg.Coupons.DiscountRates = getEnvFloatList("COUPON_DISCOUNT_RATES", cfg.Coupons.DiscountRates)
	cfg.Coupons.TypeRatio = getEnvFloat("COUPON_TYPE_RATIO", cfg.Coupons.TypeRatio)
	cfg.Coupons.UsageRateRange = getEnvFloatRange("COUPON_USAGE_RATE_RANGE", cfg.Coupons.UsageRateRange)

	log.Printf("Config loaded: env=%s, range=%s..%s, customers=%d, items=%d",
		cfg.Env,
		cfg.Simulation.StartDate.Format(dateLayout),
		cfg.Simulation.EndDate.Format(dateLayout),
		cfg.Simulation.TotalCustomers,
		cfg.Simulation.TotalItems)
	return cfg
}

// Validate reports configuration errors that must fail at construction time
// instead of surfacing inside the day loop.
func (c *Config) Validate() error {
	if c.Simulation.EndDate.Before(c.Simulation.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			c.Simulation.EndDate.Format(dateLayout), c.Simulation.StartDate.Format(dateLayout))
	}
	if c.Simulation.TotalCustomers <= 0 {
		return fmt.Errorf("total customers must be positive, got %d", c.Simulation.TotalCustomers)
	}
	if c.Simulation.TotalItems <= 0 {
		return fmt.Errorf("total items must be positive, got %d", c.Simulation.TotalItems)
	}

	pools := []struct {
		name string
		size int
	}{
		{"channels", len(c.Pools.Channels)},
		{"categories", len(c.Pools.Categories)},
		{"app pages", len(c.Pools.AppPages)},
		{"entry pages", len(c.Pools.EntryPages)},
		{"action types", len(c.Pools.ActionTypes)},
		{"device types", len(c.Pools.DeviceTypes)},
		{"regions", len(c.Pools.Regions)},
		{"location cities", len(c.Pools.LocationCities)},
		{"ip cities", len(c.Pools.IPCities)},
		{"city tiers", len(c.Pools.CityTiers)},
		{"ltv tiers", len(c.Pools.LTVTiers)},
		{"origins", len(c.Pools.Origins)},
		{"message channels", len(c.Pools.MessageChannels)},
	}
	for _, p := range pools {
		if p.size == 0 {
			return fmt.Errorf("empty %s pool", p.name)
		}
	}

	ranges := []struct {
		name string
		r    IntRange
	}{
		{"daily orders", c.Orders.DailyRange},
		{"daily messages", c.Messages.DailyRange},
		{"daily coupons", c.Coupons.DailyRange},
		{"coupon cash", c.Coupons.CashRange},
	}
	for _, x := range ranges {
		if x.r.Min < 0 || x.r.Max < x.r.Min {
			return fmt.Errorf("invalid %s range [%d,%d]", x.name, x.r.Min, x.r.Max)
		}
	}

	if c.Behavior.NonOrderingRatio < 0 {
		return fmt.Errorf("non-ordering ratio must not be negative, got %d", c.Behavior.NonOrderingRatio)
	}
	if c.Coupons.ValidDays < 0 {
		return fmt.Errorf("coupon valid days must not be negative, got %d", c.Coupons.ValidDays)
	}
	if len(c.Coupons.DiscountRates) == 0 {
		return fmt.Errorf("empty coupon discount rate list")
	}
	if c.Coupons.TypeRatio < 0 || c.Coupons.TypeRatio > 1 {
		return fmt.Errorf("coupon type ratio must be within [0,1], got %v", c.Coupons.TypeRatio)
	}
	if r := c.Coupons.UsageRateRange; r.Min < 0 || r.Max < r.Min || r.Max > 1 {
		return fmt.Errorf("invalid coupon usage rate range [%v,%v]", r.Min, r.Max)
	}
	return nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDate(key string, defaultVal time.Time) time.Time {
	if val := os.Getenv(key); val != "" {
		if t, err := time.Parse(dateLayout, val); err == nil {
			return t
		}
	}
	return defaultVal
}

func getEnvDates(key string, defaultVal []time.Time) []time.Time {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var dates []time.Time
	for _, part := range strings.Split(val, ",") {
		if t, err := time.Parse(dateLayout, strings.TrimSpace(part)); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvIntList(key string, defaultVal []int) []int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []int
	for _, part := range strings.Split(val, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvFloatList(key string, defaultVal []float64) []float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []float64
	for _, part := range strings.Split(val, ",") {
		if f, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvIntRange(key string, defaultVal IntRange) IntRange {
	parts := getEnvIntList(key, nil)
	if len(parts) != 2 {
		return defaultVal
	}
	return IntRange{Min: parts[0], Max: parts[1]}
}

func getEnvFloatRange(key string, defaultVal FloatRange) FloatRange {
	parts := getEnvFloatList(key, nil)
	if len(parts) != 2 {
		return defaultVal
	}
	return FloatRange{Min: parts[0], Max: parts[1]}
}
