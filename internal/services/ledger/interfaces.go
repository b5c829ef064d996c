package ledger

import (
	"context"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
)

// Service is the single entry point for every coin mutation in the system.
// Game, earning, referral and withdrawal flows all route through Apply; no
// other code touches wallet_coins.
type Service interface {
	// Apply appends a transaction and mutates the balance atomically.
	Apply(ctx context.Context, userID uint, amount int64, txType, method, description string) (*models.Transaction, error)
	// ApplyWithMetadata is Apply with an extra metadata payload on the row.
	ApplyWithMetadata(ctx context.Context, userID uint, amount int64, txType, method, description string, metadata models.JSON) (*models.Transaction, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error)
	Balance(ctx context.Context, userID uint) (int64, error)
	Stats(ctx context.Context, start, end time.Time) (*repositories.LedgerStats, error)
}

// BalanceCache is the slice of the cache service the ledger needs. Satisfied
// by *cache.CacheService.
type BalanceCache interface {
	GetBalance(ctx context.Context, userID uint) (int64, bool, error)
	CacheBalance(ctx context.Context, userID uint, coins int64) error
	InvalidateUser(ctx context.Context, userID uint) error
}
