package ledger

import "errors"

var (
	ErrInvalidAmount = errors.New("transaction amount must be positive")
	ErrInvalidType   = errors.New("unknown transaction type")
)
