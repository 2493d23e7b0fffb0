package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy a pixel at its listed price",
	Run:   buyRun,
}

func init() {
	rootCmd.AddCommand(buyCmd)
	addPixelFlags(buyCmd)
	addColorFlags(buyCmd)
	buyCmd.Flags().Uint32VarP(&termDays, "term", "t", 30, "Term length in days.")
	buyCmd.Flags().Uint64Var(&price, "price", 1_000_000, "New self-assessed price for the pixel.")
}

func buyRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	// The buy cost is the current listed price plus the deposit for the
	// buyer's own term at the new price.
	var pix struct {
		Price uint64 `json:"price"`
	}
	get(fmt.Sprintf("/v1/pixel/%d/%d", posX, posY), &pix)

	settings := fetchSettings()
	dep, err := deposit.Calc(termDays, price, settings.TaxPerDay)
	if err != nil {
		log.Fatal(err)
	}
	amount := pix.Price + dep

	op := database.Op{
		Method:   database.OpBuy,
		Pos:      database.Position{X: posX, Y: posY},
		Color:    database.Color{R: colorR, G: colorG, B: colorB},
		TermDays: termDays,
		Price:    price,
	}

	submit(privateKey, op, amount)
}
