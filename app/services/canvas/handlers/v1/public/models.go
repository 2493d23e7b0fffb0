package public

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/canvas/business/web/errs"
	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
	"github.com/ardanlabs/canvas/foundation/canvas/state"
)

// payment is the transfer a wallet attaches to an operation that costs
// money. The host validates it against the custody account before the
// operation is applied.
type payment struct {
	FromID string `json:"from" validate:"required"`
	ToID   string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"required"`
}

// submitOp is the envelope wallets post to the ledger: a signed operation
// plus an optional payment.
type submitOp struct {
	database.SignedOp
	Payment *payment `json:"payment"`
}

// opResult reports the outcome of a committed operation, including the
// payout the host owes the named account, if any.
type opResult struct {
	Status string        `json:"status"`
	Payout *state.Payout `json:"payout,omitempty"`
}

// pixel is the read model for a single pixel.
type pixel struct {
	Pos         database.Position  `json:"pos"`
	Owner       database.AccountID `json:"owner"`
	OwnerName   string             `json:"owner_name,omitempty"`
	Color       database.Color     `json:"color"`
	TermBeginAt uint64             `json:"term_begin_at"`
	TermDays    uint32             `json:"term_days"`
	Price       uint64             `json:"price"`
	Deposit     uint64             `json:"deposit"`
}

// toStatePayment converts the wire payment into the core representation,
// validating the account formats.
func (p payment) toStatePayment() (state.Payment, error) {
	fromID, err := database.ToAccountID(p.FromID)
	if err != nil {
		return state.Payment{}, err
	}

	toID, err := database.ToAccountID(p.ToID)
	if err != nil {
		return state.Payment{}, err
	}

	pay := state.Payment{
		FromID: fromID,
		ToID:   toID,
		Amount: p.Amount,
	}

	return pay, nil
}

// toTrusted maps core rule violations to trusted errors with the proper
// status code. Anything else stays untrusted and surfaces as a 500.
func toTrusted(err error) error {
	switch {
	case errors.Is(err, state.ErrPixelNotFound):
		return errs.NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, state.ErrPixelExists):
		return errs.NewTrusted(err, http.StatusConflict)

	case errors.Is(err, state.ErrNotOwner), errors.Is(err, state.ErrUnauthorized):
		return errs.NewTrusted(err, http.StatusForbidden)

	case errors.Is(err, state.ErrInvalidPayment), errors.Is(err, state.ErrDepositUnderflow),
		errors.Is(err, deposit.ErrOverflow):
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return err
}
