package game

import "errors"

var (
	ErrInvalidBet        = errors.New("bet must be positive")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrRoundInProgress   = errors.New("a round is already in progress")
	ErrNoActiveRound     = errors.New("no active round")
	ErrRoundOver         = errors.New("round is already over")
	ErrScratchLimit      = errors.New("daily scratch limit reached")
	ErrInvalidTarget     = errors.New("target multiplier too low")
	ErrInvalidMineCount  = errors.New("mine count must be between 1 and 24")
	ErrInvalidDifficulty = errors.New("unknown difficulty")
	ErrInvalidTile       = errors.New("tile position out of range")
	ErrTileRevealed      = errors.New("tile already revealed")
	ErrNothingToCollect  = errors.New("nothing to cash out yet")
)
