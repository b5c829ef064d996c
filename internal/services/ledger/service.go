package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	ledger repositories.LedgerRepository
	users  repositories.UserRepository
	cache  BalanceCache
}

// NewService creates the ledger service.
func NewService(ledgerRepo repositories.LedgerRepository, userRepo repositories.UserRepository, cache BalanceCache) Service {
	if ledgerRepo == nil {
		panic("ledger repository is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	return &service{
		ledger: ledgerRepo,
		users:  userRepo,
		cache:  cache,
	}
}

func (s *service) Apply(ctx context.Context, userID uint, amount int64, txType, method, description string) (*models.Transaction, error) {
	return s.ApplyWithMetadata(ctx, userID, amount, txType, method, description, nil)
}

func (s *service) ApplyWithMetadata(ctx context.Context, userID uint, amount int64, txType, method, description string, metadata models.JSON) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch txType {
	case models.TransactionTypeEarn, models.TransactionTypeDeduct, models.TransactionTypeWithdraw:
	default:
		return nil, ErrInvalidType
	}

	tx := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Method:      method,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}

	// Append and balance mutation happen in one database transaction; a
	// failure leaves no partial row behind.
	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Failed to invalidate cache for user %d: %v", userID, err)
	}

	return tx, nil
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.History(ctx, userID, limit, offset)
}

func (s *service) Balance(ctx context.Context, userID uint) (int64, error) {
	if coins, found, err := s.cache.GetBalance(ctx, userID); err == nil && found {
		return coins, nil
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	if err := s.cache.CacheBalance(ctx, userID, user.WalletCoins); err != nil {
		log.Printf("Failed to cache balance for user %d: %v", userID, err)
	}
	return user.WalletCoins, nil
}

func (s *service) Stats(ctx context.Context, start, end time.Time) (*repositories.LedgerStats, error) {
	return s.ledger.Stats(ctx, start, end)
}
