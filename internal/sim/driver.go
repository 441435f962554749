package sim

import (
	"fmt"
	"math/rand"

	"ecomsim/config"
	"ecomsim/internal/models"
	"ecomsim/internal/util"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Simulator drives the full date range, calling the engines in dependency
// order each day and accumulating the six output tables. All cross-day state
// (coupon ledger, running counts, first-seen dates, id offsets) is owned
// here; a single seeded random stream feeds every engine, so reordering the
// calls below changes all downstream output even with a fixed seed.
type Simulator struct {
	cfg       *config.Config
	catalog   *Catalog
	pricing   *PricingEngine
	orders    *OrderEngine
	coupons   *CouponLedger
	behavior  *BehaviorEngine
	snapshots *SnapshotBuilder
	messages  *MessageEngine
	logger    *zap.Logger
}

// New validates the configuration and builds the simulator. The catalogs are
// generated here, consuming the random stream before any daily step.
func New(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	catalog := NewCatalog(cfg, rng)
	pricing := NewPricingEngine(cfg.Simulation.PromotionDates, rng)

	return &Simulator{
		cfg:       cfg,
		catalog:   catalog,
		pricing:   pricing,
		orders:    NewOrderEngine(catalog, pricing, cfg.Orders, cfg.Coupons.UsageRateRange, cfg.Pools.Channels, rng),
		coupons:   NewCouponLedger(cfg.Coupons, rng),
		behavior:  NewBehaviorEngine(catalog, pricing, cfg.Pools, cfg.Behavior, rng),
		snapshots: NewSnapshotBuilder(catalog),
		messages:  NewMessageEngine(cfg.Messages, cfg.Pools.MessageChannels, rng),
		logger:    util.GetLogger(),
	}, nil
}

// Catalog exposes the entity pools generated at construction.
func (s *Simulator) Catalog() *Catalog {
	return s.catalog
}

// Run executes the whole date range and returns the accumulated dataset.
// Nothing is written anywhere until the full range completes.
func (s *Simulator) Run() *models.Dataset {
	start := s.cfg.Simulation.StartDate
	end := s.cfg.Simulation.EndDate
	days := int(end.Sub(start).Hours()/24) + 1

	bar := progressbar.Default(int64(days), "simulating")

	ds := &models.Dataset{}
	var orderOffset, messageOffset int64

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		orders := s.orders.GenerateDaily(date, orderOffset)
		behaviors := s.behavior.GenerateDaily(date, orders)
		snapshot := s.snapshots.BuildDaily(date, orders, behaviors)
		s.coupons.IssueDaily(date, snapshot)
		s.orders.ApplyCoupons(orders, s.coupons, date)
		s.coupons.ExpireSweep(date)
		items := s.pricing.DailyItems(s.catalog, date)
		messages := s.messages.GenerateDaily(date, snapshot, messageOffset)
		couponStates := s.coupons.Snapshot(date)

		ds.Orders = append(ds.Orders, orders...)
		ds.Behaviors = append(ds.Behaviors, behaviors...)
		ds.Customers = append(ds.Customers, snapshot...)
		ds.Items = append(ds.Items, items...)
		ds.Messages = append(ds.Messages, messages...)
		ds.Coupons = append(ds.Coupons, couponStates...)

		orderOffset += int64(len(orders))
		messageOffset += int64(len(messages))

		s.logger.Debug("day simulated",
			zap.String("date", dayKey(date)),
			zap.Int("orders", len(orders)),
			zap.Int("behaviors", len(behaviors)),
			zap.Int("customers", len(snapshot)),
			zap.Int("messages", len(messages)))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	s.logger.Info("simulation complete",
		zap.Int("days", days),
		zap.Int("orders", len(ds.Orders)),
		zap.Int("behaviors", len(ds.Behaviors)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("items", len(ds.Items)),
		zap.Int("messages", len(ds.Messages)),
		zap.Int("coupons", len(ds.Coupons)))
	return ds
}
