// Package withdrawal implements the payout request workflow: full-balance
// redemption into a pending request, then a one-shot admin resolution.
package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"

	"github.com/google/uuid"
)

const (
	// CoinConversionRate converts coins to currency units.
	CoinConversionRate = 100
	// MinWithdrawalCoins is the balance floor for opening a request.
	MinWithdrawalCoins int64 = 5000
)

type Service interface {
	// CreateRequest redeems the user's full balance into a pending request.
	// The debit and the request row are written in one database transaction.
	CreateRequest(ctx context.Context, userID uint, method, details string) (*models.WithdrawalRequest, error)
	// Resolve moves a pending request to approved or rejected exactly once.
	// Replaying the same terminal decision is a no-op returning the request.
	Resolve(ctx context.Context, requestID, decision string) (*models.WithdrawalRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WithdrawalRequest, error)
}

// UserCache is the cache slice this service invalidates after a debit.
type UserCache interface {
	InvalidateUser(ctx context.Context, userID uint) error
}

type service struct {
	withdrawals repositories.WithdrawalRepository
	users       repositories.UserRepository
	notifs      repositories.NotificationRepository
	cache       UserCache
}

func NewService(
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	cache UserCache,
) Service {
	if withdrawalRepo == nil {
		panic("withdrawal repository is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}
	if notifRepo == nil {
		panic("notification repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	return &service{
		withdrawals: withdrawalRepo,
		users:       userRepo,
		notifs:      notifRepo,
		cache:       cache,
	}
}

func (s *service) CreateRequest(ctx context.Context, userID uint, method, details string) (*models.WithdrawalRequest, error) {
	if !models.ValidWithdrawalMethod(method) {
		return nil, ErrInvalidMethod
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	coins := user.WalletCoins
	if coins < MinWithdrawalCoins {
		return nil, ErrBelowMinimum
	}

	req := &models.WithdrawalRequest{
		ID:      uuid.NewString(),
		UserID:  userID,
		Amount:  float64(coins) / CoinConversionRate,
		Coins:   coins,
		Method:  method,
		Details: details,
		Status:  models.WithdrawalStatusPending,
	}
	debit := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      coins,
		Type:        models.TransactionTypeWithdraw,
		Method:      "Withdrawal Request",
		Description: fmt.Sprintf("Redeemed %d coins via %s", coins, method),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.withdrawals.CreateWithDebit(ctx, req, debit); err != nil {
		// The balance moved between the read and the conditional debit, most
		// likely a concurrent redemption of the same coins.
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return nil, ErrBelowMinimum
		}
		return nil, err
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Failed to invalidate cache for user %d: %v", userID, err)
	}
	return req, nil
}

func (s *service) Resolve(ctx context.Context, requestID, decision string) (*models.WithdrawalRequest, error) {
	if decision != models.WithdrawalStatusApproved && decision != models.WithdrawalStatusRejected {
		return nil, ErrInvalidDecision
	}

	err := s.withdrawals.ResolvePending(ctx, requestID, decision)
	if err != nil {
		if !errors.Is(err, repositories.ErrRequestNotPending) {
			return nil, err
		}
		// Already terminal: replaying the same decision is a no-op, a
		// different decision is a conflict.
		req, getErr := s.withdrawals.GetByID(ctx, requestID)
		if getErr != nil {
			return nil, getErr
		}
		if req.Status == decision {
			return req, nil
		}
		return nil, ErrStateConflict
	}

	req, err := s.withdrawals.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notifyResolution(ctx, req)
	return req, nil
}

func (s *service) ListPending(ctx context.Context, limit, offset int) ([]*models.WithdrawalRequest, error) {
	return s.withdrawals.ListByStatus(ctx, models.WithdrawalStatusPending, limit, offset)
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WithdrawalRequest, error) {
	return s.withdrawals.ListByUser(ctx, userID, limit, offset)
}

func (s *service) notifyResolution(ctx context.Context, req *models.WithdrawalRequest) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if req.Status == models.WithdrawalStatusApproved {
		n.Title = "Withdrawal Approved"
		n.Body = fmt.Sprintf("Your withdrawal of %.2f via %s has been approved.", req.Amount, req.Method)
		n.Type = models.NotificationSuccess
	} else {
		n.Title = "Withdrawal Rejected"
		n.Body = fmt.Sprintf("Your withdrawal of %.2f via %s was rejected. Contact support for details.", req.Amount, req.Method)
		n.Type = models.NotificationAlert
	}
	if err := s.notifs.Create(ctx, n); err != nil {
		log.Printf("Failed to write withdrawal notification for user %d: %v", req.UserID, err)
	}
}
