package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/genesis"
)

// Flags shared by the operation commands.
var (
	posX     uint32
	posY     uint32
	colorR   uint8
	colorG   uint8
	colorB   uint8
	termDays uint32
	price    uint64
)

// payment mirrors the transfer envelope the service expects alongside an
// operation that costs money.
type payment struct {
	FromID string `json:"from"`
	ToID   string `json:"to"`
	Amount uint64 `json:"amount"`
}

// submitOp is the request envelope for POST /v1/op.
type submitOp struct {
	database.SignedOp
	Payment *payment `json:"payment,omitempty"`
}

// opResult is the response for a committed operation.
type opResult struct {
	Status string `json:"status"`
	Payout *struct {
		ToID   string `json:"to"`
		Amount uint64 `json:"amount"`
	} `json:"payout,omitempty"`
}

// submit signs the operation, attaches a payment to the custody account when
// amount is non-zero, posts it, and prints the outcome.
func submit(privateKey *ecdsa.PrivateKey, op database.Op, amount uint64) {
	signedOp, err := op.Sign(privateKey)
	if err != nil {
		log.Fatal(err)
	}

	req := submitOp{SignedOp: signedOp}
	if amount > 0 {
		gen := fetchGenesis()
		req.Payment = &payment{
			FromID: string(database.PublicKeyToAccountID(privateKey.PublicKey)),
			ToID:   gen.Custody,
			Amount: amount,
		}
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/op", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Fatalf("service rejected operation: %s: %s", resp.Status, body)
	}

	var result opResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	fmt.Println("status:", result.Status)
	if result.Payout != nil {
		fmt.Printf("payout: %d to %s\n", result.Payout.Amount, result.Payout.ToID)
	}
}

// fetchGenesis retrieves the genesis information from the service.
func fetchGenesis() genesis.Genesis {
	var gen genesis.Genesis
	get("/v1/genesis", &gen)
	return gen
}

// fetchSettings retrieves the current economic settings from the service.
func fetchSettings() database.Settings {
	var settings database.Settings
	get("/v1/config", &settings)
	return settings
}

func get(path string, val any) {
	resp, err := http.Get(url + path)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Fatalf("service error: %s: %s", resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(val); err != nil {
		log.Fatal(err)
	}
}

// addPixelFlags binds the position flags every pixel command shares.
func addPixelFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32VarP(&posX, "x", "x", 0, "X coordinate of the pixel.")
	cmd.Flags().Uint32VarP(&posY, "y", "y", 0, "Y coordinate of the pixel.")
}

// addColorFlags binds the color channel flags.
func addColorFlags(cmd *cobra.Command) {
	cmd.Flags().Uint8Var(&colorR, "red", 0, "Red channel 0-255.")
	cmd.Flags().Uint8Var(&colorG, "green", 0, "Green channel 0-255.")
	cmd.Flags().Uint8Var(&colorB, "blue", 0, "Blue channel 0-255.")
}
