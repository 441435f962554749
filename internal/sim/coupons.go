package sim

import (
	"fmt"
	"math/rand"
	"time"

	"ecomsim/config"
	"ecomsim/internal/models"
	"ecomsim/internal/util"

	"go.uber.org/zap"
)

// CouponLedger owns every coupon ever issued across the run. Coupons are
// never pruned; a day's snapshot re-emits the full history with each coupon's
// status as of that day.
type CouponLedger struct {
	cfg     config.CouponConfig
	rng     *rand.Rand
	logger  *zap.Logger
	coupons []*models.Coupon
	nextID  int
}

func NewCouponLedger(cfg config.CouponConfig, rng *rand.Rand) *CouponLedger {
	return &CouponLedger{
		cfg:    cfg,
		rng:    rng,
		logger: util.GetLogger(),
		nextID: 1,
	}
}

// IssueDaily issues a day's coupons to a random selection of customers from
// the day's snapshot. The count is drawn from the configured range, bounded
// by the snapshot size.
func (l *CouponLedger) IssueDaily(date time.Time, snapshot []models.CustomerSnapshot) []models.Coupon {
	custIDs := make([]int64, len(snapshot))
	for i, row := range snapshot {
		custIDs[i] = row.CustomerID
	}

	count := randBetween(l.rng, l.cfg.DailyRange.Min, l.cfg.DailyRange.Max)
	selected := sampleIDs(l.rng, custIDs, count)

	issued := make([]models.Coupon, 0, len(selected))
	for _, custID := range selected {
		c := &models.Coupon{
			ID:         l.generateCouponID(),
			CustomerID: custID,
			Status:     models.CouponStatusAvailable,
			IssueDate:  date,
			ExpireDate: date.AddDate(0, 0, l.cfg.ValidDays),
		}
		if l.rng.Float64() < l.cfg.TypeRatio {
			c.Type = models.CouponTypeDiscount
			c.DiscountAmount = choiceFloat(l.rng, l.cfg.DiscountRates)
		} else {
			c.Type = models.CouponTypeCash
			c.DiscountAmount = float64(randBetween(l.rng, l.cfg.CashRange.Min, l.cfg.CashRange.Max))
		}
		l.coupons = append(l.coupons, c)
		issued = append(issued, *c)
	}

	l.logger.Debug("coupons issued",
		zap.String("date", dayKey(date)),
		zap.Int("count", len(issued)),
		zap.Int("total", len(l.coupons)))
	return issued
}

// AvailableCoupons returns every coupon that is still available and not past
// its expiry date. A coupon is usable through its expiry date inclusive.
func (l *CouponLedger) AvailableCoupons(date time.Time) []*models.Coupon {
	var out []*models.Coupon
	for _, c := range l.coupons {
		if c.Status == models.CouponStatusAvailable && !date.After(c.ExpireDate) {
			out = append(out, c)
		}
	}
	return out
}

// MarkUsed consumes a coupon for an order. Used is a terminal status.
func (l *CouponLedger) MarkUsed(c *models.Coupon, date time.Time, orderID int64) {
	c.Status = models.CouponStatusUsed
	c.UsedDate = date
	c.UsedOrderID = orderID
}

// ExpireSweep flips every available coupon whose expiry date has passed to
// expired. Used coupons are never revisited.
func (l *CouponLedger) ExpireSweep(date time.Time) {
	for _, c := range l.coupons {
		if c.Status == models.CouponStatusAvailable && date.After(c.ExpireDate) {
			c.Status = models.CouponStatusExpired
		}
	}
}

// Snapshot returns the full coupon history with each coupon's status as of
// the given day.
func (l *CouponLedger) Snapshot(date time.Time) []models.CouponState {
	out := make([]models.CouponState, 0, len(l.coupons))
	for _, c := range l.coupons {
		out = append(out, models.CouponState{Coupon: *c, Date: date})
	}
	return out
}

func (l *CouponLedger) generateCouponID() string {
	id := fmt.Sprintf("CP%08d", l.nextID)
	l.nextID++
	return id
}
