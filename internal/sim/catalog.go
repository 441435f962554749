package sim

import (
	"fmt"
	"math/rand"

	"ecomsim/config"
	"ecomsim/internal/models"
)

const (
	customerIDBase = 1000000
	itemIDBase     = 90000
	// open ids are derived from customer ids by a fixed numeric offset;
	// the mapping is owned here and never re-derived at call sites.
	openIDOffset = 199
)

// Catalog holds the static customer and item pools, generated once at
// construction. Iteration always uses the generation order so that a fixed
// seed reproduces the run.
type Catalog struct {
	customers []models.Customer
	items     []models.Item

	custByID     map[int64]int
	custByOpenID map[string]int
	itemByID     map[int64]int
}

// NewCatalog generates the customer pool followed by the item pool, consuming
// the shared random stream in that order.
func NewCatalog(cfg *config.Config, rng *rand.Rand) *Catalog {
	c := &Catalog{
		custByID:     make(map[int64]int),
		custByOpenID: make(map[string]int),
		itemByID:     make(map[int64]int),
	}

	for i := 1; i <= cfg.Simulation.TotalCustomers; i++ {
		id := int64(customerIDBase + i)
		cust := models.Customer{
			ID:             id,
			OpenID:         fmt.Sprintf("op%d", id-openIDOffset),
			Sex:            rng.Intn(2),
			Age:            randBetween(rng, 18, 70),
			LTVTier:        choice(rng, cfg.Pools.LTVTiers),
			CityTier:       choiceInt(rng, cfg.Pools.CityTiers),
			Region:         choice(rng, cfg.Pools.Regions),
			FixedRandomNum: randBetween(rng, 1, 100),
		}
		c.custByID[cust.ID] = len(c.customers)
		c.custByOpenID[cust.OpenID] = len(c.customers)
		c.customers = append(c.customers, cust)
	}

	for i := 1; i <= cfg.Simulation.TotalItems; i++ {
		base := int64(randBetween(rng, 50, 500))
		item := models.Item{
			ID:        int64(itemIDBase + i),
			Category:  choice(rng, cfg.Pools.Categories),
			BasePrice: base,
			CostPrice: int64(float64(base) * uniform(rng, 0.3, 0.6)),
			Rating:    randBetween(rng, 1, 5),
			Origin:    choice(rng, cfg.Pools.Origins),
		}
		c.itemByID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}

	return c
}

// Customers returns the customer pool in generation order.
func (c *Catalog) Customers() []models.Customer {
	return c.customers
}

// Items returns the item pool in generation order.
func (c *Catalog) Items() []models.Item {
	return c.items
}

// CustomerIDs returns every customer id in generation order.
func (c *Catalog) CustomerIDs() []int64 {
	ids := make([]int64, len(c.customers))
	for i, cust := range c.customers {
		ids[i] = cust.ID
	}
	return ids
}

// CustomerByID resolves a customer id. The simulator only produces ids it
// generated itself, so a miss is an invariant violation, not a recoverable
// condition.
func (c *Catalog) CustomerByID(id int64) *models.Customer {
	i, ok := c.custByID[id]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown customer id %d", id))
	}
	return &c.customers[i]
}

// CustomerByOpenID resolves a textual open id.
func (c *Catalog) CustomerByOpenID(openID string) *models.Customer {
	i, ok := c.custByOpenID[openID]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown open id %q", openID))
	}
	return &c.customers[i]
}

// ItemByID resolves an item id.
func (c *Catalog) ItemByID(id int64) *models.Item {
	i, ok := c.itemByID[id]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown item id %d", id))
	}
	return &c.items[i]
}
