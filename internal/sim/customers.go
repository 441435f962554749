package sim

import (
	"time"

	"ecomsim/internal/models"
)

// SnapshotBuilder derives the daily full customer table from cumulative
// order and behavior history. It owns the cross-day state the table depends
// on: the roster of every customer ever observed, running order counts,
// immutable first-seen dates and last-visit dates.
type SnapshotBuilder struct {
	catalog     *Catalog
	roster      []int64
	firstSeen   map[int64]time.Time
	lastVisit   map[int64]time.Time
	orderCounts map[int64]int
}

func NewSnapshotBuilder(catalog *Catalog) *SnapshotBuilder {
	return &SnapshotBuilder{
		catalog:     catalog,
		firstSeen:   make(map[int64]time.Time),
		lastVisit:   make(map[int64]time.Time),
		orderCounts: make(map[int64]int),
	}
}

// BuildDaily returns the day's customer table: every customer with behavior
// that day or any prior day, in first-ever-seen order. open_date is fixed at
// first observed behavior and never recomputed; orders_cnt only ever
// increases; last_visit_date tracks the most recent behavior day.
func (b *SnapshotBuilder) BuildDaily(date time.Time, orders []models.Order, behaviors []models.BehaviorEvent) []models.CustomerSnapshot {
	seen := make(map[int64]bool)
	for _, ev := range behaviors {
		cust := b.catalog.CustomerByOpenID(ev.OpenID)
		if seen[cust.ID] {
			continue
		}
		seen[cust.ID] = true
		if _, ok := b.firstSeen[cust.ID]; !ok {
			b.firstSeen[cust.ID] = date
			b.roster = append(b.roster, cust.ID)
		}
		b.lastVisit[cust.ID] = date
	}

	for _, o := range orders {
		b.orderCounts[o.CustomerID]++
	}

	rows := make([]models.CustomerSnapshot, 0, len(b.roster))
	for _, id := range b.roster {
		cust := b.catalog.CustomerByID(id)
		rows = append(rows, models.CustomerSnapshot{
			CustomerID:     cust.ID,
			OpenID:         cust.OpenID,
			OrdersCnt:      b.orderCounts[id],
			Sex:            cust.Sex,
			Age:            cust.Age,
			LTVTier:        cust.LTVTier,
			OpenDate:       b.firstSeen[id],
			LastVisitDate:  b.lastVisit[id],
			CityTier:       cust.CityTier,
			Region:         cust.Region,
			FixedRandomNum: cust.FixedRandomNum,
			Date:           date,
		})
	}
	return rows
}
