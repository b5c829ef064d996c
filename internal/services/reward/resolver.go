// Package reward implements the pure outcome math behind the minigames:
// weighted prize draws, crash-point sampling and survival multiplier curves.
// Every function is deterministic under a seeded Source; nothing here touches
// the ledger or any store.
package reward

import "math"

// Resolver draws game outcomes from an injected randomness source.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	if src == nil {
		panic("randomness source is required")
	}
	return &Resolver{src: src}
}

// Draw picks an entry from a weighted table: r in [0, totalWeight) lands in
// the first entry whose cumulative weight exceeds it. Ties break by list
// order. Panics on an empty or non-positive table, which is a programming
// error, not an input error.
func (r *Resolver) Draw(t Table) int64 {
	total := 0
	for _, e := range t {
		if e.Weight <= 0 {
			panic("weighted table entries must have positive weight")
		}
		total += e.Weight
	}
	if total == 0 {
		panic("weighted table must not be empty")
	}

	roll := r.src.IntN(total)
	cum := 0
	for _, e := range t {
		cum += e.Weight
		if roll < cum {
			return e.Value
		}
	}
	// Unreachable: roll < total and the cumulative sum ends at total.
	return t[len(t)-1].Value
}

// Payout converts a bet and multiplier into coins, flooring fractional coins.
func Payout(bet int64, multiplier float64) int64 {
	if bet <= 0 || multiplier <= 0 {
		return 0
	}
	return int64(math.Floor(float64(bet) * multiplier))
}
