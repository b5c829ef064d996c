package earning

import "errors"

var (
	ErrCheckinNotReady = errors.New("next check-in not available yet")
	ErrAlreadyMining   = errors.New("mining session already running")
	ErrNotMining       = errors.New("no mining session running")
	ErrNothingMined    = errors.New("nothing to collect yet")
	ErrTaskInactive    = errors.New("task is not active")
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	ErrStateConflict   = errors.New("proof already resolved differently")
)
