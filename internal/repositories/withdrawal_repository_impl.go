package repositories

import (
	"context"
	"errors"
	"fmt"

	"earnsure/internal/models"

	"gorm.io/gorm"
)

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{
		db: db,
	}
}

func (r *withdrawalRepository) CreateWithDebit(ctx context.Context, req *models.WithdrawalRequest, debit *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(debit).Error; err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		// Unlike the clamped game debits, a withdrawal debit must not land
		// unless the full redeemed amount is still there. The guard makes
		// concurrent redemptions of the same coins race-safe: the loser's
		// UPDATE matches no row and the whole transaction rolls back.
		result := dbtx.Model(&models.User{}).
			Where("id = ? AND wallet_coins >= ?", debit.UserID, debit.Amount).
			UpdateColumn("wallet_coins", gorm.Expr("wallet_coins - ?", debit.Amount))
		if result.Error != nil {
			return fmt.Errorf("failed to apply balance change: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		if err := dbtx.Create(req).Error; err != nil {
			return fmt.Errorf("failed to create withdrawal request: %w", err)
		}
		return nil
	})
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	return &req, nil
}

func (r *withdrawalRepository) ResolvePending(ctx context.Context, id, status string) error {
	// Guarding on the current status makes concurrent resolutions race-safe:
	// only one UPDATE can move the row out of pending.
	result := r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to resolve withdrawal request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var req models.WithdrawalRequest
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("failed to resolve withdrawal request: %w", err)
		}
		return ErrRequestNotPending
	}
	return nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WithdrawalRequest, error) {
	var reqs []*models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return reqs, nil
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.WithdrawalRequest, error) {
	var reqs []*models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return reqs, nil
}
