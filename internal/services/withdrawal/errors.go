package withdrawal

import "errors"

var (
	ErrBelowMinimum    = errors.New("balance below minimum withdrawal amount")
	ErrInvalidMethod   = errors.New("invalid withdrawal method")
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	ErrStateConflict   = errors.New("request already resolved differently")
)
