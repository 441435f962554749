package sim

import (
	"math/rand"
	"time"

	"ecomsim/config"
	"ecomsim/internal/models"
	"ecomsim/internal/util"

	"go.uber.org/zap"
)

const (
	promoUpliftMin = 0.5
	promoUpliftMax = 1.0
)

// OrderEngine produces each day's orders against eligible items and a
// sampled subset of customers, and applies coupons to them in a separate
// post-generation pass.
type OrderEngine struct {
	catalog  *Catalog
	pricing  *PricingEngine
	cfg      config.OrderConfig
	usage    config.FloatRange
	channels []string
	rng      *rand.Rand
	logger   *zap.Logger
}

func NewOrderEngine(catalog *Catalog, pricing *PricingEngine, cfg config.OrderConfig, usage config.FloatRange, channels []string, rng *rand.Rand) *OrderEngine {
	return &OrderEngine{
		catalog:  catalog,
		pricing:  pricing,
		cfg:      cfg,
		usage:    usage,
		channels: channels,
		rng:      rng,
		logger:   util.GetLogger(),
	}
}

// GenerateDaily emits one day's orders with globally unique ids starting at
// idOffset+1. A day with no eligible items degrades to zero orders.
func (e *OrderEngine) GenerateDaily(date time.Time, idOffset int64) []models.Order {
	min, max := e.cfg.DailyRange.Min, e.cfg.DailyRange.Max
	if e.pricing.IsPromotionDay(date) {
		uplift := uniform(e.rng, promoUpliftMin, promoUpliftMax)
		min = int(float64(min) * (1 + uplift))
		max = int(float64(max) * (1 + uplift))
	}
	count := randBetween(e.rng, min, max)

	custIDs := sampleIDs(e.rng, e.catalog.CustomerIDs(), count)

	eligible := e.pricing.EligibleItems(e.catalog, date)
	if len(eligible) == 0 {
		e.logger.Warn("no eligible items, zero orders", zap.String("date", dayKey(date)))
		return nil
	}

	orders := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		itemID := eligible[e.rng.Intn(len(eligible))]
		item := e.catalog.ItemByID(itemID)
		channel := choice(e.rng, e.channels)

		// Independent pricing draw for the order amount; may differ from the
		// eligibility scan above.
		q := e.pricing.Quote(item.BasePrice, date)

		actual := float64(q.Price)
		if actual < 0.01 {
			actual = 0.01
		}
		orders = append(orders, models.Order{
			ID:              idOffset + int64(i) + 1,
			CustomerID:      custIDs[i%len(custIDs)],
			ItemID:          itemID,
			Channel:         channel,
			OriginalPrice:   item.BasePrice,
			DiscountedPrice: q.Price,
			ActualAmount:    round2(actual),
			IsCouponUsed:    models.FlagNo,
			CouponType:      models.CouponTypeNone,
			IsDiscounted:    q.Discounted,
			DiscountRate:    q.DiscountRate,
			Date:            date,
		})
	}
	return orders
}

// ApplyCoupons runs the retroactive coupon pass over a day's orders. The
// usage rate is drawn once per day; a selected coupon is removed from the
// available pool immediately so it cannot be reused within the pass.
func (e *OrderEngine) ApplyCoupons(orders []models.Order, ledger *CouponLedger, date time.Time) {
	available := ledger.AvailableCoupons(date)
	if len(available) == 0 {
		return
	}

	usageRate := uniform(e.rng, e.usage.Min, e.usage.Max)

	for i := range orders {
		order := &orders[i]

		var mine []*models.Coupon
		for _, c := range available {
			if c.CustomerID == order.CustomerID {
				mine = append(mine, c)
			}
		}
		if len(mine) == 0 {
			continue
		}
		if e.rng.Float64() >= usageRate {
			continue
		}

		selected := mine[e.rng.Intn(len(mine))]

		var actual float64
		switch selected.Type {
		case models.CouponTypeDiscount:
			actual = float64(order.DiscountedPrice) * selected.DiscountAmount
		case models.CouponTypeCash:
			actual = float64(order.DiscountedPrice) - selected.DiscountAmount
		default:
			actual = float64(order.DiscountedPrice)
		}
		if actual < 0.01 {
			actual = 0.01
		}

		order.ActualAmount = round2(actual)
		order.IsCouponUsed = models.FlagYes
		order.CouponDiscount = selected.DiscountAmount
		order.CouponType = selected.Type
		order.CouponID = selected.ID

		ledger.MarkUsed(selected, date, order.ID)

		for j, c := range available {
			if c == selected {
				available = append(available[:j], available[j+1:]...)
				break
			}
		}
	}
}
