package game

import "earnsure/internal/services/reward"

// Game identifiers used as round-store keys and in logs.
const (
	gameAviator = "aviator"
	gameMines   = "mines"
	gameChicken = "chicken"
)

// ScratchDailyLimit caps scratch cards per user per calendar day.
const ScratchDailyLimit = 10

// DrawResult is the outcome of a free draw (spin, scratch).
type DrawResult struct {
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

// CrashResult reports an Aviator cash-out attempt.
type CrashResult struct {
	Won        bool    `json:"won"`
	CrashPoint float64 `json:"crash_point"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
}

// LimboResult reports a single-shot Limbo round.
type LimboResult struct {
	Won    bool    `json:"won"`
	Target float64 `json:"target"`
	Result float64 `json:"result"`
	Payout int64   `json:"payout"`
}

// RevealResult reports one Mines tile reveal.
type RevealResult struct {
	Mine       bool    `json:"mine"`
	Gems       int     `json:"gems"`
	Multiplier float64 `json:"multiplier"`
	// MinePositions is populated only when the round ends on a mine.
	MinePositions []int `json:"mine_positions,omitempty"`
}

// StepResult reports one Chicken Road step.
type StepResult struct {
	Safe       bool    `json:"safe"`
	Step       int     `json:"step"`
	Multiplier float64 `json:"multiplier"`
	LastStep   bool    `json:"last_step"`
}

// CashOutResult reports a survival-game cash-out.
type CashOutResult struct {
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
}

// Round state held in the in-memory store. One open round per user per game.

type aviatorRound struct {
	bet   int64
	crash float64
}

type minesRound struct {
	bet      int64
	mines    int
	layout   map[int]bool
	revealed map[int]bool
}

func (r *minesRound) gems() int {
	return len(r.revealed)
}

type chickenRound struct {
	bet        int64
	difficulty reward.Difficulty
	steps      int
}
