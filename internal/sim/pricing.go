package sim

import (
	"math/rand"
	"time"

	"ecomsim/internal/models"
)

const (
	promoDiscountProb   = 0.9
	promoDiscountMin    = 0.2
	promoDiscountMax    = 0.7
	regularDiscountProb = 0.3
	regularDiscountMin  = 0.1
	regularDiscountMax  = 0.3
	eligibleProb        = 0.9
)

// PriceQuote is one day's pricing outcome for an item.
type PriceQuote struct {
	Price        int64
	Eligible     bool
	Discounted   bool
	DiscountRate float64
}

// PricingEngine computes promotion-aware per-item daily pricing. Every Quote
// is an independent random draw: the same item may be evaluated several times
// on the same day with different outcomes, and callers must tolerate that.
type PricingEngine struct {
	rng        *rand.Rand
	promoDates map[string]bool
}

func NewPricingEngine(promoDates []time.Time, rng *rand.Rand) *PricingEngine {
	p := &PricingEngine{
		rng:        rng,
		promoDates: make(map[string]bool, len(promoDates)),
	}
	for _, d := range promoDates {
		p.promoDates[dayKey(d)] = true
	}
	return p
}

// IsPromotionDay reports whether date is a configured promotion date.
func (p *PricingEngine) IsPromotionDay(date time.Time) bool {
	return p.promoDates[dayKey(date)]
}

// Quote evaluates an item's effective price and eligibility for one day.
// Ineligible items are forced back to full price with no discount.
func (p *PricingEngine) Quote(basePrice int64, date time.Time) PriceQuote {
	q := PriceQuote{Price: basePrice}

	if p.IsPromotionDay(date) {
		if p.rng.Float64() < promoDiscountProb {
			q.Discounted = true
			q.DiscountRate = round1(uniform(p.rng, promoDiscountMin, promoDiscountMax))
		}
	} else if p.rng.Float64() < regularDiscountProb {
		q.Discounted = true
		q.DiscountRate = round1(uniform(p.rng, regularDiscountMin, regularDiscountMax))
	}
	if q.Discounted {
		q.Price = int64(float64(basePrice) * (1 - q.DiscountRate))
	}

	q.Eligible = p.rng.Float64() < eligibleProb
	if !q.Eligible {
		q.Discounted = false
		q.DiscountRate = 0
		q.Price = basePrice
	}
	return q
}

// EligibleItems quotes every item in catalog order and returns the ids that
// drew an eligible outcome.
func (p *PricingEngine) EligibleItems(catalog *Catalog, date time.Time) []int64 {
	var eligible []int64
	for _, item := range catalog.Items() {
		if q := p.Quote(item.BasePrice, date); q.Eligible {
			eligible = append(eligible, item.ID)
		}
	}
	return eligible
}

// DailyItems builds the items-of-the-day table with a fresh quote per item.
func (p *PricingEngine) DailyItems(catalog *Catalog, date time.Time) []models.ItemSnapshot {
	rows := make([]models.ItemSnapshot, 0, len(catalog.Items()))
	for _, item := range catalog.Items() {
		q := p.Quote(item.BasePrice, date)
		eligible := models.FlagNo
		if q.Eligible {
			eligible = models.FlagYes
		}
		rows = append(rows, models.ItemSnapshot{
			ItemID:       item.ID,
			Category:     item.Category,
			IsEligible:   eligible,
			Price:        q.Price,
			CostPrice:    item.CostPrice,
			IsDiscounted: q.Discounted,
			DiscountRate: q.DiscountRate,
			Rating:       item.Rating,
			Origin:       item.Origin,
			Date:         date,
		})
	}
	return rows
}
