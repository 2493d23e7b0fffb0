package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

// privateURL is the operator host the settings commands talk to. It can be
// overridden with the ADMIN_PRIVATE_URL environment variable.
const privateURL = "http://localhost:9080"

// UpdateMintFee signs and submits a mint fee change as the creator.
//
// Usage: admin fee <creator-name> <value>
func UpdateMintFee(args []string) error {
	return updateSetting(args, database.OpSetMintFee)
}

// UpdateTaxPerDay signs and submits a daily tax change as the creator.
//
// Usage: admin tax <creator-name> <value>
func UpdateTaxPerDay(args []string) error {
	return updateSetting(args, database.OpSetTaxPerDay)
}

func updateSetting(args []string, method string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: admin %s <creator-name> <value>", args[1])
	}

	path := filepath.Join(accountsFolder, args[2]+".ecdsa")
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return fmt.Errorf("loading key %s: %w", path, err)
	}

	value, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing value: %w", err)
	}

	op := database.Op{
		Method: method,
		Value:  value,
	}

	signedOp, err := op.Sign(privateKey)
	if err != nil {
		return err
	}

	data, err := json.Marshal(signedOp)
	if err != nil {
		return err
	}

	url := privateURL
	if v := os.Getenv("ADMIN_PRIVATE_URL"); v != "" {
		url = v
	}

	resp, err := http.Post(url+"/v1/settings", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status + ": " + string(body))
	}

	fmt.Println(string(body))
	return nil
}
