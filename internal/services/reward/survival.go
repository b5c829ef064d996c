package reward

import "math"

// SafeStep runs one independent survival check for a Chicken Road step.
func (r *Resolver) SafeStep(d Difficulty) bool {
	return r.src.Float64() < chickenSafeChance[d]
}

// ChickenMultiplier returns the locked-in multiplier after the player has
// cleared `steps` steps. Returns false when steps is out of range for the
// tier (no step cleared yet, or past the end of the road).
func ChickenMultiplier(d Difficulty, steps int) (float64, bool) {
	table, ok := chickenMultipliers[d]
	if !ok || steps < 1 || steps > len(table) {
		return 0, false
	}
	return table[steps-1], true
}

// MineLayout places `mines` mines uniformly on the 5x5 board and returns
// their positions. Partial Fisher-Yates over the 25 cells.
func (r *Resolver) MineLayout(mines int) map[int]bool {
	if mines < 1 {
		mines = 1
	}
	if mines > MaxMines {
		mines = MaxMines
	}

	cells := make([]int, MinesBoardSize)
	for i := range cells {
		cells[i] = i
	}
	layout := make(map[int]bool, mines)
	for i := 0; i < mines; i++ {
		j := i + r.src.IntN(MinesBoardSize-i)
		cells[i], cells[j] = cells[j], cells[i]
		layout[cells[i]] = true
	}
	return layout
}

// MinesMultiplier computes the payout multiplier after `gems` safe reveals on
// a board with `mines` mines. Each reveal compounds the survival odds ratio
// for the shrinking board, capped at MaxMinesMultiplier.
func MinesMultiplier(mines, gems int) float64 {
	m := 1.0
	for i := 0; i < gems; i++ {
		m *= 1 + float64(mines)/float64(MinesBoardSize-i)
	}
	return math.Min(m, MaxMinesMultiplier)
}
