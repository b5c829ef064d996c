package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength    = 100
	MaxDetailsLength = 500

	// Bet limits accepted at the API edge
	MinBetCoins = 1
	MaxBetCoins = 1_000_000
)
