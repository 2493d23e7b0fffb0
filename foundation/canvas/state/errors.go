package state

import "errors"

// Set of failures a lifecycle operation can abort with. Every failure is
// raised before any mutation is applied, so the host can treat any of these
// as "operation did not happen".
var (
	ErrInvalidPayment   = errors.New("invalid payment")
	ErrPixelExists      = errors.New("pixel already exists")
	ErrPixelNotFound    = errors.New("pixel not found")
	ErrNotOwner         = errors.New("sender must be owner")
	ErrDepositUnderflow = errors.New("deposit must cover the spent portion")
	ErrUnauthorized     = errors.New("sender must be the creator")
)
