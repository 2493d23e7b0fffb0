package state

import (
	"fmt"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// Payment describes an inbound transfer the host has attached to an
// operation. The core never moves money itself; it only asserts the
// transfer targets the custody account and carries the exact amount the
// operation requires.
type Payment struct {
	FromID database.AccountID `json:"from"`
	ToID   database.AccountID `json:"to"`
	Amount uint64             `json:"amount"`
}

// Payout describes an outbound transfer the host must execute from the
// custody account. An operation returns at most one payout and only
// alongside a committed state change.
type Payout struct {
	ToID   database.AccountID `json:"to"`
	Amount uint64             `json:"amount"`
}

// validatePayment asserts the attached payment is addressed to the custody
// account and matches the expected amount exactly.
func (s *State) validatePayment(pay Payment, expected uint64) error {
	if pay.ToID != s.custody {
		return fmt.Errorf("payment must be to the custody account %s, got %s: %w", s.custody, pay.ToID, ErrInvalidPayment)
	}
	if pay.Amount != expected {
		return fmt.Errorf("payment must be %d, got %d: %w", expected, pay.Amount, ErrInvalidPayment)
	}
	return nil
}
