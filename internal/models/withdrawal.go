package models

import (
	"time"
)

// Withdrawal request statuses. Approved and rejected are terminal.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Payout methods
const (
	WithdrawalMethodUPI      = "UPI"
	WithdrawalMethodWallet   = "Wallet"
	WithdrawalMethodGiftCard = "GiftCard"
)

// WithdrawalRequest is created together with its DEDUCT ledger transaction
// and afterwards mutated only by an admin status transition.
type WithdrawalRequest struct {
	ID        string  `gorm:"primarykey"` // uuid
	UserID    uint    `gorm:"not null;index"`
	Amount    float64 `gorm:"not null"` // Currency units (coins / conversion rate)
	Coins     int64   `gorm:"not null"` // Source coin amount debited from the wallet
	Method    string  `gorm:"not null"`
	Details   string  `gorm:"not null"` // Free-text payout destination
	Status    string  `gorm:"not null;default:'pending';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *WithdrawalRequest) Terminal() bool {
	return w.Status == WithdrawalStatusApproved || w.Status == WithdrawalStatusRejected
}

func ValidWithdrawalMethod(method string) bool {
	switch method {
	case WithdrawalMethodUPI, WithdrawalMethodWallet, WithdrawalMethodGiftCard:
		return true
	}
	return false
}
