package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"earnsure/internal/models"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

func (r *ledgerRepository) Append(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		return applyLedgerEntry(dbtx, tx)
	})
}

// applyLedgerEntry writes the transaction row and applies its delta to the
// owner's balance inside the caller's database transaction.
func applyLedgerEntry(dbtx *gorm.DB, tx *models.Transaction) error {
	if err := dbtx.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	var expr interface{}
	if tx.Type == models.TransactionTypeEarn {
		expr = gorm.Expr("wallet_coins + ?", tx.Amount)
	} else {
		// Floor at zero: debits never drive the balance negative
		expr = gorm.Expr("GREATEST(wallet_coins - ?, 0)", tx.Amount)
	}

	result := dbtx.Model(&models.User{}).
		Where("id = ?", tx.UserID).
		UpdateColumn("wallet_coins", expr)
	if result.Error != nil {
		return fmt.Errorf("failed to apply balance change: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTransaction
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) History(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *ledgerRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) Stats(ctx context.Context, start, end time.Time) (*LedgerStats, error) {
	var stats LedgerStats
	base := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("created_at BETWEEN ? AND ?", start, end)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get ledger stats: %w", err)
	}

	sums := []struct {
		txType string
		dest   *int64
	}{
		{models.TransactionTypeEarn, &stats.TotalEarned},
		{models.TransactionTypeDeduct, &stats.TotalDeducted},
		{models.TransactionTypeWithdraw, &stats.TotalWithdrawn},
	}
	for _, s := range sums {
		err := base.Session(&gorm.Session{}).
			Where("type = ?", s.txType).
			Select("COALESCE(SUM(amount), 0)").
			Scan(s.dest).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get ledger stats: %w", err)
		}
	}
	return &stats, nil
}
