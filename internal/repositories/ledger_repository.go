package repositories

import (
	"context"
	"errors"
	"time"

	"earnsure/internal/models"
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// LedgerRepository defines the interface for the append-only transaction log
// and the balance it derives.
type LedgerRepository interface {
	// Append persists the transaction and applies its delta to the user's
	// wallet_coins in a single database transaction. The balance mutation is
	// one atomic UPDATE (clamped at zero for debits), never read-then-write.
	Append(ctx context.Context, tx *models.Transaction) error

	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)

	// Admin reporting
	ListAll(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
	Stats(ctx context.Context, start, end time.Time) (*LedgerStats, error)
}

// LedgerStats represents aggregated ledger statistics
type LedgerStats struct {
	TotalTransactions int64
	TotalEarned       int64
	TotalDeducted     int64
	TotalWithdrawn    int64
}
