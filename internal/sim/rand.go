package sim

import (
	"math"
	"math/rand"
	"time"
)

// randBetween returns a uniform integer in [min, max] inclusive.
func randBetween(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// uniform returns a uniform float in [min, max).
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func choice(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func choiceInt(rng *rand.Rand, pool []int) int {
	return pool[rng.Intn(len(pool))]
}

func choiceFloat(rng *rand.Rand, pool []float64) float64 {
	return pool[rng.Intn(len(pool))]
}

// sampleIDs draws min(k, len(pool)) ids without replacement.
func sampleIDs(rng *rand.Rand, pool []int64, k int) []int64 {
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]int64, k)
	for i, j := range rng.Perm(len(pool))[:k] {
		out[i] = pool[j]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dayKey collapses a timestamp to its calendar date.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
