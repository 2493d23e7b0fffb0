package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/canvas/foundation/canvas/signature"
)

// Set of methods a signed operation can carry.
const (
	OpAllocate     = "allocate"
	OpMint         = "mint"
	OpBuy          = "buy"
	OpUpdateColor  = "update_color"
	OpUpdateTerm   = "update_term"
	OpUpdatePrice  = "update_price"
	OpBurn         = "burn"
	OpSetMintFee   = "set_mint_fee"
	OpSetTaxPerDay = "set_tax_per_day"
)

// Op is a single canvas operation as a wallet submits it. Fields that a
// method does not use are left at their zero value and still covered by
// the signature.
type Op struct {
	Method   string   `json:"method"`
	Pos      Position `json:"pos"`
	Color    Color    `json:"color"`
	TermDays uint32   `json:"term_days"`
	Price    uint64   `json:"price"`
	Value    uint64   `json:"value"` // Allocation count or new fee value.
}

// Sign uses the specified private key to sign the operation.
func (op Op) Sign(privateKey *ecdsa.PrivateKey) (SignedOp, error) {
	v, r, s, err := signature.Sign(op, privateKey)
	if err != nil {
		return SignedOp{}, err
	}

	signedOp := SignedOp{
		Op: op,
		V:  v,
		R:  r,
		S:  s,
	}

	return signedOp, nil
}

// =============================================================================

// SignedOp is a signed version of the operation. This is how wallets provide
// operations for inclusion into the ledger, and how the caller identity is
// established.
type SignedOp struct {
	Op
	V *big.Int `json:"v"` // Recovery identifier, either 29 or 30 with canvasID.
	R *big.Int `json:"r"` // First coordinate of the ECDSA signature.
	S *big.Int `json:"s"` // Second coordinate of the ECDSA signature.
}

// Validate verifies the operation has a proper signature that conforms to
// our standards and carries a known method.
func (op SignedOp) Validate() error {
	switch op.Method {
	case OpAllocate, OpMint, OpBuy, OpUpdateColor, OpUpdateTerm, OpUpdatePrice, OpBurn, OpSetMintFee, OpSetTaxPerDay:
	default:
		return fmt.Errorf("unknown operation method %q", op.Method)
	}

	if err := signature.VerifySignature(op.Op, op.V, op.R, op.S); err != nil {
		return err
	}

	return nil
}

// FromAccount extracts the account id that signed the operation.
func (op SignedOp) FromAccount() (AccountID, error) {
	address, err := signature.FromAddress(op.Op, op.V, op.R, op.S)
	if err != nil {
		return "", err
	}

	accountID, err := ToAccountID(address)
	if err != nil {
		return "", errors.New("signature recovered an invalid account")
	}

	return accountID, nil
}

// SignatureString returns the signature as a string.
func (op SignedOp) SignatureString() string {
	return signature.SignatureString(op.V, op.R, op.S)
}

// String implements the fmt.Stringer interface for logging.
func (op SignedOp) String() string {
	from, err := op.FromAccount()
	if err != nil {
		from = "unknown"
	}

	return fmt.Sprintf("%s:%s:%s", from, op.Method, op.Pos)
}
