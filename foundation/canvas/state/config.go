package state

import (
	"fmt"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// UpdateMintFee changes the price of minting an unowned pixel. Restricted
// to the creator account fixed at genesis.
func (s *State) UpdateMintFee(caller database.AccountID, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.creator {
		return fmt.Errorf("account %s: %w", caller, ErrUnauthorized)
	}

	settings := s.db.QuerySettings()
	settings.MintFee = value
	if err := s.db.UpdateSettings(settings); err != nil {
		return err
	}

	s.evHandler("state: config: mint fee set to %d", value)

	return nil
}

// UpdateTaxPerDay changes the daily tax rate in millionths of the price.
// Restricted to the creator account fixed at genesis.
func (s *State) UpdateTaxPerDay(caller database.AccountID, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.creator {
		return fmt.Errorf("account %s: %w", caller, ErrUnauthorized)
	}

	settings := s.db.QuerySettings()
	settings.TaxPerDay = value
	if err := s.db.UpdateSettings(settings); err != nil {
		return err
	}

	s.evHandler("state: config: tax per day set to %d", value)

	return nil
}
