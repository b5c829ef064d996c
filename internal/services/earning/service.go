// Package earning covers the non-game earning surfaces: daily check-ins,
// the client-timed mining loop, rewarded ads and proof-reviewed tasks.
package earning

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
	"earnsure/internal/services/ledger"

	"github.com/google/uuid"
)

const (
	// CheckinInterval is the cooldown between daily check-ins.
	CheckinInterval = 24 * time.Hour
	// CheckinStreakCap wraps the streak counter.
	CheckinStreakCap = 30
	// MiningRatePerHour is the accrual ceiling for a mining session.
	MiningRatePerHour = 100
	// AdReward is the flat credit for a completed rewarded ad.
	AdReward int64 = 15
)

// checkinRewards is indexed by (streak day - 1) % 7; day seven pays out big.
var checkinRewards = []int64{10, 10, 10, 10, 10, 10, 50}

// CheckinReward returns the coin value for a given streak day.
func CheckinReward(streak int) int64 {
	if streak < 1 {
		streak = 1
	}
	return checkinRewards[(streak-1)%len(checkinRewards)]
}

// CollectResult reports a settled mining session.
type CollectResult struct {
	Coins   int64         `json:"coins"`
	Elapsed time.Duration `json:"elapsed"`
}

type Service interface {
	CheckIn(ctx context.Context, userID uint) (int64, int, error)

	StartMining(ctx context.Context, userID uint) error
	// CollectMining settles a client-timed session: the claim is clamped to
	// the server-side accrual ceiling for the elapsed time.
	CollectMining(ctx context.Context, userID uint, claimedCoins int64) (*CollectResult, error)

	WatchAd(ctx context.Context, userID uint) (int64, error)

	ListTasks(ctx context.Context) ([]*models.Task, error)
	SubmitProof(ctx context.Context, userID uint, taskID uint, proofURL string) (*models.TaskProof, error)
	ReviewProof(ctx context.Context, proofID, decision string) (*models.TaskProof, error)
	ListPendingProofs(ctx context.Context, limit, offset int) ([]*models.TaskProof, error)

	CreateTask(ctx context.Context, task *models.Task) error
	DeactivateTask(ctx context.Context, taskID uint) error
}

type service struct {
	users  repositories.UserRepository
	tasks  repositories.TaskRepository
	notifs repositories.NotificationRepository
	ledger ledger.Service
}

func NewService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	notifRepo repositories.NotificationRepository,
	ledgerSvc ledger.Service,
) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	if taskRepo == nil {
		panic("task repository is required")
	}
	if notifRepo == nil {
		panic("notification repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	return &service{
		users:  userRepo,
		tasks:  taskRepo,
		notifs: notifRepo,
		ledger: ledgerSvc,
	}
}

// CheckIn credits the daily reward and advances the streak. Returns the
// credited amount and the new streak day.
func (s *service) CheckIn(ctx context.Context, userID uint) (int64, int, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return 0, 0, err
	}

	now := time.Now().UTC()
	if user.LastCheckin != nil && now.Sub(*user.LastCheckin) < CheckinInterval {
		return 0, 0, ErrCheckinNotReady
	}

	streak := (user.CheckinStreak % CheckinStreakCap) + 1
	amount := CheckinReward(streak)

	// Advance the cooldown gate before crediting: a failed credit costs the
	// user a retry tomorrow, but a failed gate write can never leave a credit
	// behind that a retry would duplicate.
	if err := s.users.UpdateFields(userID, map[string]interface{}{
		"last_checkin":   now,
		"checkin_streak": streak,
	}); err != nil {
		return 0, 0, err
	}

	if _, err := s.ledger.Apply(ctx, userID, amount, models.TransactionTypeEarn,
		"Daily Reward", fmt.Sprintf("Day %d check-in", streak)); err != nil {
		return 0, 0, err
	}

	s.notify(ctx, userID, "Daily Check-in",
		fmt.Sprintf("Day %d streak! You earned %d coins.", streak, amount),
		models.NotificationSuccess)
	return amount, streak, nil
}

func (s *service) StartMining(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.IsMining {
		return ErrAlreadyMining
	}

	now := time.Now().UTC()
	return s.users.UpdateFields(userID, map[string]interface{}{
		"is_mining":         true,
		"mining_started_at": now,
	})
}

func (s *service) CollectMining(ctx context.Context, userID uint, claimedCoins int64) (*CollectResult, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsMining || user.MiningStartedAt == nil {
		return nil, ErrNotMining
	}

	// The server holds no accrual state; the client's claim is accepted only
	// up to rate x elapsed time.
	elapsed := time.Since(*user.MiningStartedAt)
	ceiling := int64(math.Floor(MiningRatePerHour * elapsed.Hours()))
	coins := claimedCoins
	if coins > ceiling {
		coins = ceiling
	}
	if coins < 1 {
		return nil, ErrNothingMined
	}

	if _, err := s.ledger.Apply(ctx, userID, coins, models.TransactionTypeEarn,
		"Mining Settlement", fmt.Sprintf("Mined for %s", elapsed.Round(time.Minute))); err != nil {
		return nil, err
	}

	if err := s.users.UpdateFields(userID, map[string]interface{}{
		"is_mining":         false,
		"mining_started_at": nil,
	}); err != nil {
		return nil, err
	}

	return &CollectResult{Coins: coins, Elapsed: elapsed}, nil
}

func (s *service) WatchAd(ctx context.Context, userID uint) (int64, error) {
	if _, err := s.ledger.Apply(ctx, userID, AdReward, models.TransactionTypeEarn,
		"Rewarded Ad", "Watched a rewarded ad"); err != nil {
		return 0, err
	}
	return AdReward, nil
}

// Tasks

func (s *service) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.tasks.ListActiveTasks(ctx)
}

func (s *service) SubmitProof(ctx context.Context, userID uint, taskID uint, proofURL string) (*models.TaskProof, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, ErrTaskInactive
	}

	proof := &models.TaskProof{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskID:      taskID,
		ProofURL:    proofURL,
		Status:      models.ProofStatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	// Tasks that need no proof settle immediately.
	if !task.RequireProof {
		proof.Status = models.ProofStatusApproved
		if err := s.tasks.CreateProof(ctx, proof); err != nil {
			return nil, err
		}
		if _, err := s.ledger.Apply(ctx, userID, task.Reward, models.TransactionTypeEarn,
			"Task Reward", task.Title); err != nil {
			return nil, err
		}
		return proof, nil
	}

	if err := s.tasks.CreateProof(ctx, proof); err != nil {
		return nil, err
	}
	return proof, nil
}

func (s *service) ReviewProof(ctx context.Context, proofID, decision string) (*models.TaskProof, error) {
	if decision != models.ProofStatusApproved && decision != models.ProofStatusRejected {
		return nil, ErrInvalidDecision
	}

	err := s.tasks.ResolvePendingProof(ctx, proofID, decision)
	if err != nil {
		if !errors.Is(err, repositories.ErrRequestNotPending) {
			return nil, err
		}
		proof, getErr := s.tasks.GetProof(ctx, proofID)
		if getErr != nil {
			return nil, getErr
		}
		if proof.Status == decision {
			return proof, nil
		}
		return nil, ErrStateConflict
	}

	proof, err := s.tasks.GetProof(ctx, proofID)
	if err != nil {
		return nil, err
	}

	// The guarded status transition above fires at most once per proof, so
	// the reward credits exactly once.
	if decision == models.ProofStatusApproved {
		task, err := s.tasks.GetTask(ctx, proof.TaskID)
		if err != nil {
			return nil, err
		}
		if _, err := s.ledger.Apply(ctx, proof.UserID, task.Reward, models.TransactionTypeEarn,
			"Task Reward", task.Title); err != nil {
			return nil, err
		}
		s.notify(ctx, proof.UserID, "Task Approved",
			fmt.Sprintf("Your proof for %q was approved. %d coins credited.", task.Title, task.Reward),
			models.NotificationSuccess)
	} else {
		s.notify(ctx, proof.UserID, "Task Rejected",
			"Your task proof was rejected. Check the task requirements and try again.",
			models.NotificationAlert)
	}

	return proof, nil
}

func (s *service) ListPendingProofs(ctx context.Context, limit, offset int) ([]*models.TaskProof, error) {
	return s.tasks.ListPendingProofs(ctx, limit, offset)
}

func (s *service) CreateTask(ctx context.Context, task *models.Task) error {
	return s.tasks.SaveTask(ctx, task)
}

func (s *service) DeactivateTask(ctx context.Context, taskID uint) error {
	return s.tasks.DeactivateTask(ctx, taskID)
}

func (s *service) notify(ctx context.Context, userID uint, title, body, typ string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifs.Create(ctx, n); err != nil {
		log.Printf("Failed to write notification for user %d: %v", userID, err)
	}
}
