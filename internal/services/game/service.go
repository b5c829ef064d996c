// Package game orchestrates minigame rounds server-side: it checks balances,
// debits bets and credits payouts through the ledger, and keeps open round
// state so a client can never cash out past its pre-sampled outcome.
package game

import (
	"context"
	"sync"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
	"earnsure/internal/services/ledger"
	"earnsure/internal/services/reward"
)

type Service interface {
	Spin(ctx context.Context, userID uint) (*DrawResult, error)
	Scratch(ctx context.Context, userID uint) (*DrawResult, error)

	StartAviator(ctx context.Context, userID uint, bet int64) error
	CashOutAviator(ctx context.Context, userID uint, multiplier float64) (*CrashResult, error)

	PlayLimbo(ctx context.Context, userID uint, bet int64, target float64) (*LimboResult, error)

	StartMines(ctx context.Context, userID uint, bet int64, mines int) error
	RevealTile(ctx context.Context, userID uint, pos int) (*RevealResult, error)
	CashOutMines(ctx context.Context, userID uint) (*CashOutResult, error)

	StartChicken(ctx context.Context, userID uint, bet int64, difficulty reward.Difficulty) error
	StepChicken(ctx context.Context, userID uint) (*StepResult, error)
	CashOutChicken(ctx context.Context, userID uint) (*CashOutResult, error)
}

type service struct {
	ledger   ledger.Service
	users    repositories.UserRepository
	resolver *reward.Resolver
	rounds   *roundStore

	// The resolver's source is not safe for concurrent use.
	randMu sync.Mutex
}

func NewService(ledgerSvc ledger.Service, userRepo repositories.UserRepository, resolver *reward.Resolver) Service {
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	return &service{
		ledger:   ledgerSvc,
		users:    userRepo,
		resolver: resolver,
		rounds:   newRoundStore(),
	}
}

// Free draws

func (s *service) Spin(ctx context.Context, userID uint) (*DrawResult, error) {
	value := s.draw(reward.SpinTable)
	if _, err := s.ledger.Apply(ctx, userID, value, models.TransactionTypeEarn, "Lucky Spin", "Spin wheel reward"); err != nil {
		return nil, err
	}
	return s.drawResult(ctx, userID, value)
}

func (s *service) Scratch(ctx context.Context, userID uint) (*DrawResult, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	count := user.ScratchCount
	if user.LastScratchDate != today {
		count = 0
	}
	if count >= ScratchDailyLimit {
		return nil, ErrScratchLimit
	}

	// The limit bookkeeping lands before the credit: if it fails the card is
	// not granted, so a retry can never double-credit past the daily cap.
	if err := s.users.UpdateFields(userID, map[string]interface{}{
		"last_scratch_date": today,
		"scratch_count":     count + 1,
	}); err != nil {
		return nil, err
	}

	value := s.draw(reward.SpinTable)
	if _, err := s.ledger.Apply(ctx, userID, value, models.TransactionTypeEarn, "Lucky Scratch", "Scratch card reward"); err != nil {
		return nil, err
	}

	return s.drawResult(ctx, userID, value)
}

// Aviator

func (s *service) StartAviator(ctx context.Context, userID uint, bet int64) error {
	if bet <= 0 {
		return ErrInvalidBet
	}

	// The crash point is fixed before the round opens; the client's climbing
	// multiplier is presentation only.
	round := &aviatorRound{bet: bet, crash: s.crash()}
	if err := s.rounds.open(userID, gameAviator, round); err != nil {
		return err
	}

	if err := s.debitBet(ctx, userID, bet, "Aviator Trade", "Aviator round bet"); err != nil {
		s.rounds.take(userID, gameAviator)
		return err
	}
	return nil
}

func (s *service) CashOutAviator(ctx context.Context, userID uint, multiplier float64) (*CrashResult, error) {
	if multiplier < 1.0 {
		return nil, ErrInvalidTarget
	}

	raw, ok := s.rounds.take(userID, gameAviator)
	if !ok {
		return nil, ErrNoActiveRound
	}
	round := raw.(*aviatorRound)

	if multiplier >= round.crash {
		// The plane crashed before the requested multiplier; the bet is gone.
		return &CrashResult{Won: false, CrashPoint: round.crash, Multiplier: multiplier}, nil
	}

	payout := reward.Payout(round.bet, multiplier)
	if _, err := s.ledger.Apply(ctx, userID, payout, models.TransactionTypeEarn, "Aviator Profit", "Aviator cash out"); err != nil {
		return nil, err
	}
	return &CrashResult{Won: true, CrashPoint: round.crash, Multiplier: multiplier, Payout: payout}, nil
}

// Limbo

func (s *service) PlayLimbo(ctx context.Context, userID uint, bet int64, target float64) (*LimboResult, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}
	if target < reward.MinLimboTarget {
		return nil, ErrInvalidTarget
	}

	if err := s.debitBet(ctx, userID, bet, "Limbo Bet", "Limbo round bet"); err != nil {
		return nil, err
	}

	result := s.limboResult(target)
	out := &LimboResult{Target: target, Result: result}
	if result >= target {
		out.Won = true
		out.Payout = reward.Payout(bet, target)
		if _, err := s.ledger.Apply(ctx, userID, out.Payout, models.TransactionTypeEarn, "Limbo Win", "Limbo target hit"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Mines

func (s *service) StartMines(ctx context.Context, userID uint, bet int64, mines int) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if mines < 1 || mines > reward.MaxMines {
		return ErrInvalidMineCount
	}

	round := &minesRound{
		bet:      bet,
		mines:    mines,
		layout:   s.layout(mines),
		revealed: make(map[int]bool),
	}
	if err := s.rounds.open(userID, gameMines, round); err != nil {
		return err
	}

	if err := s.debitBet(ctx, userID, bet, "Mines Game", "Mines round bet"); err != nil {
		s.rounds.take(userID, gameMines)
		return err
	}
	return nil
}

func (s *service) RevealTile(ctx context.Context, userID uint, pos int) (*RevealResult, error) {
	if pos < 0 || pos >= reward.MinesBoardSize {
		return nil, ErrInvalidTile
	}

	var (
		result *RevealResult
		opErr  error
	)
	ok := s.rounds.update(userID, gameMines, func(raw interface{}) bool {
		round := raw.(*minesRound)

		if round.revealed[pos] {
			opErr = ErrTileRevealed
			return true
		}

		if round.layout[pos] {
			positions := make([]int, 0, round.mines)
			for p := range round.layout {
				positions = append(positions, p)
			}
			result = &RevealResult{Mine: true, Gems: round.gems(), MinePositions: positions}
			return false
		}

		round.revealed[pos] = true
		result = &RevealResult{
			Mine:       false,
			Gems:       round.gems(),
			Multiplier: reward.MinesMultiplier(round.mines, round.gems()),
		}
		return true
	})
	if !ok {
		return nil, ErrNoActiveRound
	}
	if opErr != nil {
		return nil, opErr
	}
	return result, nil
}

func (s *service) CashOutMines(ctx context.Context, userID uint) (*CashOutResult, error) {
	// The round is consumed inside the store lock before any credit, so a
	// concurrent duplicate cash-out finds no round instead of a second payout.
	var (
		bet        int64
		multiplier float64
		opErr      error
	)
	ok := s.rounds.update(userID, gameMines, func(raw interface{}) bool {
		round := raw.(*minesRound)
		if round.gems() == 0 {
			opErr = ErrNothingToCollect
			return true
		}
		bet = round.bet
		multiplier = reward.MinesMultiplier(round.mines, round.gems())
		return false
	})
	if !ok {
		return nil, ErrNoActiveRound
	}
	if opErr != nil {
		return nil, opErr
	}

	payout := reward.Payout(bet, multiplier)
	if _, err := s.ledger.Apply(ctx, userID, payout, models.TransactionTypeEarn, "Mines Win", "Mines cash out"); err != nil {
		return nil, err
	}
	return &CashOutResult{Multiplier: multiplier, Payout: payout}, nil
}

// Chicken Road

func (s *service) StartChicken(ctx context.Context, userID uint, bet int64, difficulty reward.Difficulty) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if !reward.ValidDifficulty(difficulty) {
		return ErrInvalidDifficulty
	}

	round := &chickenRound{bet: bet, difficulty: difficulty}
	if err := s.rounds.open(userID, gameChicken, round); err != nil {
		return err
	}

	if err := s.debitBet(ctx, userID, bet, "Chicken Road Bet", "Chicken Road round bet"); err != nil {
		s.rounds.take(userID, gameChicken)
		return err
	}
	return nil
}

func (s *service) StepChicken(ctx context.Context, userID uint) (*StepResult, error) {
	var (
		result *StepResult
		opErr  error
	)
	ok := s.rounds.update(userID, gameChicken, func(raw interface{}) bool {
		round := raw.(*chickenRound)

		if round.steps >= reward.ChickenSteps(round.difficulty) {
			opErr = ErrRoundOver
			return true
		}

		if !s.safeStep(round.difficulty) {
			result = &StepResult{Safe: false, Step: round.steps + 1}
			return false
		}

		round.steps++
		multiplier, _ := reward.ChickenMultiplier(round.difficulty, round.steps)
		result = &StepResult{
			Safe:       true,
			Step:       round.steps,
			Multiplier: multiplier,
			LastStep:   round.steps == reward.ChickenSteps(round.difficulty),
		}
		return true
	})
	if !ok {
		return nil, ErrNoActiveRound
	}
	if opErr != nil {
		return nil, opErr
	}
	return result, nil
}

func (s *service) CashOutChicken(ctx context.Context, userID uint) (*CashOutResult, error) {
	// Same gate as Mines: consume the round atomically, then credit.
	var (
		bet        int64
		multiplier float64
		opErr      error
	)
	ok := s.rounds.update(userID, gameChicken, func(raw interface{}) bool {
		round := raw.(*chickenRound)
		if round.steps == 0 {
			opErr = ErrNothingToCollect
			return true
		}
		bet = round.bet
		multiplier, _ = reward.ChickenMultiplier(round.difficulty, round.steps)
		return false
	})
	if !ok {
		return nil, ErrNoActiveRound
	}
	if opErr != nil {
		return nil, opErr
	}

	payout := reward.Payout(bet, multiplier)
	if _, err := s.ledger.Apply(ctx, userID, payout, models.TransactionTypeEarn, "Chicken Road Win", "Chicken Road cash out"); err != nil {
		return nil, err
	}
	return &CashOutResult{Multiplier: multiplier, Payout: payout}, nil
}

// Helpers

func (s *service) debitBet(ctx context.Context, userID uint, bet int64, method, description string) error {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance < bet {
		return ErrInsufficientFunds
	}
	_, err = s.ledger.Apply(ctx, userID, bet, models.TransactionTypeDeduct, method, description)
	return err
}

func (s *service) drawResult(ctx context.Context, userID uint, value int64) (*DrawResult, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DrawResult{Reward: value, Balance: balance}, nil
}

func (s *service) draw(t reward.Table) int64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.resolver.Draw(t)
}

func (s *service) crash() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.resolver.AviatorCrash()
}

func (s *service) limboResult(target float64) float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.resolver.LimboResult(target)
}

func (s *service) safeStep(d reward.Difficulty) bool {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.resolver.SafeStep(d)
}

func (s *service) layout(mines int) map[int]bool {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.resolver.MineLayout(mines)
}
