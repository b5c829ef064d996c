package reward

// Source is the randomness the resolver draws from. *rand.Rand from
// math/rand/v2 satisfies it; tests inject a seeded source.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Entry is one outcome in a weighted table.
type Entry struct {
	Value  int64
	Weight int
}

// Table is an ordered list of weighted outcomes. Weights are positive and
// need not sum to any particular total.
type Table []Entry

// Difficulty selects a Chicken Road tier.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyHard     Difficulty = "Hard"
	DifficultyHardcore Difficulty = "Hardcore"
)

const (
	// Aviator crash sampling.
	aviatorWinProb  = 0.40
	aviatorWinLow   = 2.0
	aviatorWinHigh  = 7.0
	aviatorLossLow  = 1.0
	aviatorLossHigh = 2.0

	// Limbo result sampling.
	limboWinProb = 0.42
	limboCeiling = 10.0

	// MinLimboTarget is the lowest multiplier a Limbo player may aim for.
	MinLimboTarget = 1.01

	// Mines board dimensions.
	MinesBoardSize = 25
	MaxMines       = 24

	// MaxMinesMultiplier caps the mines payout curve.
	MaxMinesMultiplier = 100.0
)

// SpinTable drives both the Lucky Spin wheel and the scratch cards.
var SpinTable = Table{
	{Value: 5, Weight: 50},
	{Value: 10, Weight: 20},
	{Value: 50, Weight: 5},
	{Value: 150, Weight: 1},
}

// chickenMultipliers holds the payout curve per tier. Monotonically
// increasing; index is the zero-based step the player has cleared.
var chickenMultipliers = map[Difficulty][]float64{
	DifficultyEasy: {
		1.02, 1.08, 1.14, 1.21, 1.29, 1.37, 1.46, 1.56, 1.67,
		1.80, 1.94, 2.10, 2.28, 2.47, 2.69, 2.93, 3.20,
	},
	DifficultyMedium: {
		1.10, 1.25, 1.45, 1.70, 2.05, 2.50, 3.10, 3.90, 5.00,
		6.50, 8.50, 11.50, 16.00, 23.00, 35.00, 55.00, 90.00,
	},
	DifficultyHard: {
		1.50, 2.50, 4.20, 7.50, 15.00, 32.00, 75.00, 180.00,
		450.00, 1200.00, 3500.00, 10000.00, 30000.00, 90000.00,
	},
	DifficultyHardcore: {
		2.00, 5.50, 18.00, 65.00, 250.00, 1000.00, 5000.00,
		25000.00, 150000.00, 800000.00, 5000000.00,
	},
}

// chickenSafeChance is the per-step survival probability per tier.
var chickenSafeChance = map[Difficulty]float64{
	DifficultyEasy:     0.95,
	DifficultyMedium:   0.85,
	DifficultyHard:     0.60,
	DifficultyHardcore: 0.45,
}

// ValidDifficulty reports whether d names a Chicken Road tier.
func ValidDifficulty(d Difficulty) bool {
	_, ok := chickenSafeChance[d]
	return ok
}

// ChickenSteps returns how many steps the tier's road has.
func ChickenSteps(d Difficulty) int {
	return len(chickenMultipliers[d])
}
