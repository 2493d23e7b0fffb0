// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date      time.Time `json:"date"`
	ChainID   uint16    `json:"chain_id"`    // An unique id for this running instance.
	Creator   string    `json:"creator"`     // Account allowed to change the global fees.
	Custody   string    `json:"custody"`     // Account that holds the escrowed deposits and fees.
	MintFee   uint64    `json:"mint_fee"`    // Starting price for an unowned pixel.
	TaxPerDay uint64    `json:"tax_per_day"` // Starting daily tax in millionths of the price.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.Creator == "" {
		return Genesis{}, fmt.Errorf("genesis file %q missing creator account", path)
	}
	if genesis.Custody == "" {
		return Genesis{}, fmt.Errorf("genesis file %q missing custody account", path)
	}

	return genesis, nil
}
