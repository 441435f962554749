package sim

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"ecomsim/config"
	"ecomsim/internal/models"
)

const (
	pageProduct = "product_page"
	pageSearch  = "search_page"

	minSessionsPerDay   = 1
	maxSessionsPerDay   = 3
	minEventsPerSession = 2
	maxEventsPerSession = 5
)

// BehaviorEngine generates session-structured app-event logs. Customers with
// an order that day always appear, joined by a random sample of non-ordering
// customers.
type BehaviorEngine struct {
	catalog *Catalog
	pricing *PricingEngine
	pools   config.PoolConfig
	ratio   int
	rng     *rand.Rand
}

func NewBehaviorEngine(catalog *Catalog, pricing *PricingEngine, pools config.PoolConfig, cfg config.BehaviorConfig, rng *rand.Rand) *BehaviorEngine {
	return &BehaviorEngine{
		catalog: catalog,
		pricing: pricing,
		pools:   pools,
		ratio:   cfg.NonOrderingRatio,
		rng:     rng,
	}
}

// GenerateDaily produces one day's events. Every ordering customer ends the
// day with at least one product_page view of an item they purchased.
func (e *BehaviorEngine) GenerateDaily(date time.Time, orders []models.Order) []models.BehaviorEvent {
	orderingIDs, purchasedByCust := collectOrdering(orders)

	ordering := make(map[int64]bool, len(orderingIDs))
	for _, id := range orderingIDs {
		ordering[id] = true
	}
	var pool []int64
	for _, cust := range e.catalog.Customers() {
		if !ordering[cust.ID] {
			pool = append(pool, cust.ID)
		}
	}
	target := len(orderingIDs) * e.ratio / 100
	if target < 1 {
		target = 1
	}
	nonOrdering := sampleIDs(e.rng, pool, target)

	active := append(append([]int64{}, orderingIDs...), nonOrdering...)

	eligible := e.pricing.EligibleItems(e.catalog, date)

	var events []models.BehaviorEvent
	bizNo := int64(1)

	for _, custID := range active {
		cust := e.catalog.CustomerByID(custID)
		purchased := purchasedByCust[custID]
		purchasedSeen := false
		firstEvent := len(events)

		sessions := randBetween(e.rng, minSessionsPerDay, maxSessionsPerDay)
		for s := 1; s <= sessions; s++ {
			eventCount := randBetween(e.rng, minEventsPerSession, maxEventsPerSession)
			visited := make(map[int64]bool)
			current := randomTimeInDay(e.rng, date)

			for i := 0; i < eventCount; i++ {
				var page string
				if i == 0 {
					page = choice(e.rng, e.pools.EntryPages)
				} else {
					page = choice(e.rng, e.pools.AppPages)
				}
				actionType := choice(e.rng, e.pools.ActionTypes)
				timeSpent := randBetween(e.rng, 1000, 30000)
				deviceType := choice(e.rng, e.pools.DeviceTypes)
				location := choice(e.rng, e.pools.LocationCities)
				current = nextEventTime(e.rng, date, current)
				ipCity := choice(e.rng, e.pools.IPCities)

				pageValue := e.pageValue(page, purchased, visited, eligible)
				if page == pageProduct && containsItem(purchased, pageValue) {
					purchasedSeen = true
				}

				events = append(events, models.BehaviorEvent{
					BizNo:      bizNo,
					OpenID:     cust.OpenID,
					SessionID:  fmt.Sprintf("%s_%s_%d", cust.OpenID, date.Format("20060102"), s),
					AppPage:    page,
					ActionType: actionType,
					TimeSpent:  timeSpent,
					DeviceType: deviceType,
					Location:   location,
					ActionTime: current,
					IPCity:     ipCity,
					PageValue:  pageValue,
					Date:       date,
				})
				bizNo++
			}
		}

		// Buying without viewing is not allowed: if no session surfaced a
		// purchased item, rewrite the customer's last event into that view.
		// Sessions always have at least two events, so the entry-page rule
		// is undisturbed.
		if len(purchased) > 0 && !purchasedSeen && len(events) > firstEvent {
			last := &events[len(events)-1]
			last.AppPage = pageProduct
			last.PageValue = strconv.FormatInt(purchased[0], 10)
		}
	}

	return events
}

// pageValue assigns the item or category a page carries. Ordering customers
// are steered toward their not-yet-visited purchased items on product pages;
// the visited set resets per session.
func (e *BehaviorEngine) pageValue(page string, purchased []int64, visited map[int64]bool, eligible []int64) string {
	switch page {
	case pageProduct:
		if len(purchased) > 0 {
			if len(visited) == 0 {
				id := purchased[e.rng.Intn(len(purchased))]
				visited[id] = true
				return strconv.FormatInt(id, 10)
			}
			if e.rng.Float64() < 0.5 && len(visited) < len(purchased) {
				var remaining []int64
				for _, id := range purchased {
					if !visited[id] {
						remaining = append(remaining, id)
					}
				}
				id := remaining[e.rng.Intn(len(remaining))]
				visited[id] = true
				return strconv.FormatInt(id, 10)
			}
		}
		if len(eligible) > 0 {
			return strconv.FormatInt(eligible[e.rng.Intn(len(eligible))], 10)
		}
		return ""
	case pageSearch:
		return choice(e.rng, e.pools.Categories)
	}
	return ""
}

// collectOrdering extracts ordering customers in first-appearance order and
// each customer's distinct purchased items.
func collectOrdering(orders []models.Order) ([]int64, map[int64][]int64) {
	var ids []int64
	seen := make(map[int64]bool)
	purchased := make(map[int64][]int64)
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			ids = append(ids, o.CustomerID)
		}
		if !containsInt64(purchased[o.CustomerID], o.ItemID) {
			purchased[o.CustomerID] = append(purchased[o.CustomerID], o.ItemID)
		}
	}
	return ids, purchased
}

func containsInt64(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsItem(items []int64, pageValue string) bool {
	if pageValue == "" {
		return false
	}
	id, err := strconv.ParseInt(pageValue, 10, 64)
	if err != nil {
		return false
	}
	return containsInt64(items, id)
}

// randomTimeInDay draws a session start anywhere within the day.
func randomTimeInDay(rng *rand.Rand, date time.Time) time.Time {
	hour := rng.Intn(24)
	minute := rng.Intn(60)
	second := rng.Intn(60)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, date.Location())
}

// nextEventTime advances the session clock by 1-5 minutes plus seconds,
// clamped to end of day so a session never crosses midnight.
func nextEventTime(rng *rand.Rand, date, previous time.Time) time.Time {
	interval := time.Duration(randBetween(rng, 1, 5))*time.Minute +
		time.Duration(rng.Intn(60))*time.Second
	next := previous.Add(interval)

	endOfDay := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	if next.After(endOfDay) {
		next = endOfDay
	}
	return next
}
