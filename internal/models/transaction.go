package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeEarn     = "EARN"
	TransactionTypeDeduct   = "DEDUCT"
	TransactionTypeWithdraw = "WITHDRAW"
)

// Transaction is one immutable ledger entry. Rows are append-only: nothing
// in the codebase updates or deletes them after Create.
type Transaction struct {
	ID          string `gorm:"primarykey"` // uuid
	UserID      uint   `gorm:"not null;index"`
	Amount      int64  `gorm:"not null"` // Always positive; Type carries the sign
	Type        string `gorm:"not null"`
	Method      string `gorm:"not null"` // Source tag, e.g. "Lucky Spin", "Withdrawal"
	Description string
	Metadata    JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

// Delta is the signed effect of the transaction on the wallet balance.
func (t *Transaction) Delta() int64 {
	if t.Type == TransactionTypeEarn {
		return t.Amount
	}
	return -t.Amount
}
