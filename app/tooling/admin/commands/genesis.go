// Package commands contains the implementation of the admin commands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/genesis"
)

const (
	accountsFolder = "zblock/accounts"
	genesisPath    = "zblock/genesis.json"
)

// Genesis writes a fresh genesis file from the named creator and custody
// key files.
//
// Usage: admin genesis <creator-name> <custody-name>
func Genesis(args []string) error {
	if len(args) != 4 {
		return errors.New("usage: admin genesis <creator-name> <custody-name>")
	}

	creator, err := accountFromKeyFile(args[2])
	if err != nil {
		return err
	}

	custody, err := accountFromKeyFile(args[3])
	if err != nil {
		return err
	}

	gen := genesis.Genesis{
		Date:      time.Now().UTC(),
		ChainID:   1,
		Creator:   string(creator),
		Custody:   string(custody),
		MintFee:   1_000_000,
		TaxPerDay: 1_750,
	}

	data, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(genesisPath, data, 0644); err != nil {
		return err
	}

	fmt.Printf("genesis written to %s\n", genesisPath)
	fmt.Println("creator:", gen.Creator)
	fmt.Println("custody:", gen.Custody)

	return nil
}

// accountFromKeyFile derives the account id for the named private key in
// the accounts folder.
func accountFromKeyFile(name string) (database.AccountID, error) {
	path := filepath.Join(accountsFolder, name+".ecdsa")

	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return "", fmt.Errorf("loading key %s: %w", path, err)
	}

	return database.PublicKeyToAccountID(privateKey.PublicKey), nil
}
