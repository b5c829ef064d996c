package repositories

import (
	"context"
	"errors"

	"earnsure/internal/models"
)

var (
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrRequestNotPending   = errors.New("withdrawal request is not pending")
	ErrInsufficientBalance = errors.New("balance below the requested debit")
)

// WithdrawalRepository defines the interface for withdrawal request storage.
type WithdrawalRepository interface {
	// CreateWithDebit persists the request and its ledger debit in one
	// database transaction, so a crash can never debit the wallet without
	// leaving a visible request. The debit is conditional on the full amount
	// still being present; ErrInsufficientBalance rolls everything back, so
	// two concurrent redemptions of the same coins yield one funded request.
	CreateWithDebit(ctx context.Context, req *models.WithdrawalRequest, debit *models.Transaction) error

	GetByID(ctx context.Context, id string) (*models.WithdrawalRequest, error)

	// ResolvePending transitions a pending request to the given terminal
	// status. Returns ErrRequestNotPending when the row is no longer pending.
	ResolvePending(ctx context.Context, id, status string) error

	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.WithdrawalRequest, error)
}
