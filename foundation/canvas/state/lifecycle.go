package state

import (
	"fmt"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
)

// AllocatePixels expands the paid-for capacity of the canvas by amount
// slots. The attached payment must cover the storage cost of every slot
// exactly.
func (s *State) AllocatePixels(caller database.AccountID, amount uint64, pay Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validatePayment(pay, deposit.PixelMinBalance*amount); err != nil {
		return err
	}

	settings := s.db.QuerySettings()
	settings.MaxPixels += amount
	if err := s.db.UpdateSettings(settings); err != nil {
		return err
	}

	s.evHandler("state: allocate: account[%s] slots[%d] max[%d]", caller, amount, settings.MaxPixels)

	return nil
}

// MintPixel creates the record for a cell nobody holds. The payment must
// cover the mint fee plus the deposit for the declared term, and the
// storage cost for one more slot when no pre-paid capacity remains.
func (s *State) MintPixel(caller database.AccountID, pos database.Position, color database.Color, termDays uint32, price uint64, pay Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.Exists(pos) {
		return fmt.Errorf("pixel %s: %w", pos, ErrPixelExists)
	}

	settings := s.db.QuerySettings()
	dep, err := deposit.Calc(termDays, price, settings.TaxPerDay)
	if err != nil {
		return fmt.Errorf("pixel %s term[%d] price[%d]: %w", pos, termDays, price, err)
	}

	// A mint either consumes a pre-paid capacity slot or funds its own.
	expected := settings.MintFee + dep
	if settings.TotalPixels >= settings.MaxPixels {
		expected += deposit.PixelMinBalance
	}
	if err := s.validatePayment(pay, expected); err != nil {
		return err
	}

	pix := database.Pixel{
		Owner:       caller,
		Color:       color,
		TermBeginAt: s.timestamp(),
		TermDays:    termDays,
		Price:       price,
		Deposit:     dep,
	}

	settings.TotalPixels++
	if settings.TotalPixels > settings.MaxPixels {
		settings.MaxPixels = settings.TotalPixels
	}

	// Record and count commit together or not at all.
	if err := s.db.UpsertWithSettings(pos, pix, settings); err != nil {
		return err
	}

	s.evHandler("state: mint: account[%s] pos%s deposit[%d] total[%d]", caller, pos, dep, settings.TotalPixels)

	return nil
}

// BuyPixel transfers an existing cell to the caller at the prior owner's
// self-assessed price. The prior owner is refunded the unspent remainder of
// their deposit; the spent portion stays with the system as accrued tax.
// Any existing pixel is purchasable, expired or not.
func (s *State) BuyPixel(caller database.AccountID, pos database.Position, color database.Color, termDays uint32, price uint64, pay Payment) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, exists := s.db.Query(pos)
	if !exists {
		return nil, fmt.Errorf("pixel %s: %w", pos, ErrPixelNotFound)
	}

	settings := s.db.QuerySettings()
	dep, err := deposit.Calc(termDays, price, settings.TaxPerDay)
	if err != nil {
		return nil, fmt.Errorf("pixel %s term[%d] price[%d]: %w", pos, termDays, price, err)
	}

	if err := s.validatePayment(pay, prior.Price+dep); err != nil {
		return nil, err
	}

	now := s.timestamp()
	spent := deposit.Spent(prior.TermBeginAt, prior.Price, settings.TaxPerDay, now)
	refund := deposit.Unspent(prior.Deposit, spent)

	pix := database.Pixel{
		Owner:       caller,
		Color:       color,
		TermBeginAt: now,
		TermDays:    termDays,
		Price:       price,
		Deposit:     dep,
	}
	if err := s.db.Upsert(pos, pix); err != nil {
		return nil, err
	}

	s.evHandler("state: buy: account[%s] pos%s price[%d] refund[%d] retained[%d]", caller, pos, prior.Price, refund, prior.Deposit-refund)

	return payoutTo(prior.Owner, refund), nil
}

// UpdatePixelColor rewrites the color of a cell the caller owns. Ownership
// is required even when the term has expired.
func (s *State) UpdatePixelColor(caller database.AccountID, pos database.Position, color database.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pix, exists := s.db.Query(pos)
	if !exists {
		return fmt.Errorf("pixel %s: %w", pos, ErrPixelNotFound)
	}
	if pix.Owner != caller {
		return fmt.Errorf("pixel %s owned by %s: %w", pos, pix.Owner, ErrNotOwner)
	}

	pix.Color = color
	if err := s.db.Upsert(pos, pix); err != nil {
		return err
	}

	s.evHandler("state: update color: account[%s] pos%s", caller, pos)

	return nil
}

// UpdateTermDays rewrites the declared term of a cell the caller owns and
// reconciles the deposit against the new term. The term start is carried
// over unchanged.
func (s *State) UpdateTermDays(caller database.AccountID, pos database.Position, termDays uint32, pay *Payment) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pix, exists := s.db.Query(pos)
	if !exists {
		return nil, fmt.Errorf("pixel %s: %w", pos, ErrPixelNotFound)
	}
	if pix.Owner != caller {
		return nil, fmt.Errorf("pixel %s owned by %s: %w", pos, pix.Owner, ErrNotOwner)
	}

	settings := s.db.QuerySettings()
	dep, err := deposit.Calc(termDays, pix.Price, settings.TaxPerDay)
	if err != nil {
		return nil, fmt.Errorf("pixel %s term[%d] price[%d]: %w", pos, termDays, pix.Price, err)
	}

	payout, err := s.reconcileDeposit(pix, dep, pay, settings.TaxPerDay)
	if err != nil {
		return nil, err
	}

	pix.TermDays = termDays
	pix.Deposit = dep
	if err := s.db.Upsert(pos, pix); err != nil {
		return nil, err
	}

	s.evHandler("state: update term: account[%s] pos%s days[%d] deposit[%d]", caller, pos, termDays, dep)

	return payout, nil
}

// UpdatePixelPrice rewrites the self-assessed price of a cell the caller
// owns and reconciles the deposit against the new price.
func (s *State) UpdatePixelPrice(caller database.AccountID, pos database.Position, price uint64, pay *Payment) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pix, exists := s.db.Query(pos)
	if !exists {
		return nil, fmt.Errorf("pixel %s: %w", pos, ErrPixelNotFound)
	}
	if pix.Owner != caller {
		return nil, fmt.Errorf("pixel %s owned by %s: %w", pos, pix.Owner, ErrNotOwner)
	}

	settings := s.db.QuerySettings()
	dep, err := deposit.Calc(pix.TermDays, price, settings.TaxPerDay)
	if err != nil {
		return nil, fmt.Errorf("pixel %s term[%d] price[%d]: %w", pos, pix.TermDays, price, err)
	}

	payout, err := s.reconcileDeposit(pix, dep, pay, settings.TaxPerDay)
	if err != nil {
		return nil, err
	}

	pix.Price = price
	pix.Deposit = dep
	if err := s.db.Upsert(pos, pix); err != nil {
		return nil, err
	}

	s.evHandler("state: update price: account[%s] pos%s price[%d] deposit[%d]", caller, pos, price, dep)

	return payout, nil
}

// BurnPixel deletes the record and refunds the unspent deposit to the
// owner. Inside the declared term only the owner may burn; once expired
// anyone may reclaim the cell on the owner's behalf.
func (s *State) BurnPixel(caller database.AccountID, pos database.Position) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pix, exists := s.db.Query(pos)
	if !exists {
		return nil, fmt.Errorf("pixel %s: %w", pos, ErrPixelNotFound)
	}

	now := s.timestamp()
	if !deposit.IsExpired(pix.TermBeginAt, pix.TermDays, now) && pix.Owner != caller {
		return nil, fmt.Errorf("pixel %s owned by %s: %w", pos, pix.Owner, ErrNotOwner)
	}

	settings := s.db.QuerySettings()
	spent := deposit.Spent(pix.TermBeginAt, pix.Price, settings.TaxPerDay, now)
	refund := deposit.Unspent(pix.Deposit, spent)

	settings.TotalPixels--

	// Record and count commit together or not at all.
	if err := s.db.RemoveWithSettings(pos, settings); err != nil {
		return nil, err
	}

	s.evHandler("state: burn: account[%s] pos%s refund[%d] total[%d]", caller, pos, refund, settings.TotalPixels)

	return payoutTo(pix.Owner, refund), nil
}

// =============================================================================

// reconcileDeposit settles the difference between the deposit currently held
// for a record and the deposit its new term/price requires. Growth must be
// paid for exactly; shrinkage is refunded net of the portion already spent,
// which stays with the system as accrued tax.
func (s *State) reconcileDeposit(pix database.Pixel, newDeposit uint64, pay *Payment, taxPerDay uint64) (*Payout, error) {
	spent := deposit.Spent(pix.TermBeginAt, pix.Price, taxPerDay, s.timestamp())
	if newDeposit < spent {
		return nil, fmt.Errorf("deposit %d is below the spent portion %d: %w", newDeposit, spent, ErrDepositUnderflow)
	}

	switch {
	case newDeposit > pix.Deposit:
		if pay == nil {
			return nil, fmt.Errorf("payment of %d required: %w", newDeposit-pix.Deposit, ErrInvalidPayment)
		}
		if err := s.validatePayment(*pay, newDeposit-pix.Deposit); err != nil {
			return nil, err
		}
		return nil, nil

	case newDeposit < pix.Deposit:
		if pay != nil {
			return nil, fmt.Errorf("no payment expected: %w", ErrInvalidPayment)
		}
		return payoutTo(pix.Owner, deposit.Unspent(pix.Deposit-newDeposit, spent)), nil

	default:
		if pay != nil {
			return nil, fmt.Errorf("no payment expected: %w", ErrInvalidPayment)
		}
		return nil, nil
	}
}

// payoutTo builds the outbound instruction for the host, or nil when there
// is nothing to pay.
func payoutTo(to database.AccountID, amount uint64) *Payout {
	if amount == 0 {
		return nil
	}
	return &Payout{ToID: to, Amount: amount}
}
