package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an unowned pixel",
	Run:   mintRun,
}

func init() {
	rootCmd.AddCommand(mintCmd)
	addPixelFlags(mintCmd)
	addColorFlags(mintCmd)
	mintCmd.Flags().Uint32VarP(&termDays, "term", "t", 30, "Term length in days.")
	mintCmd.Flags().Uint64Var(&price, "price", 1_000_000, "Self-assessed price for the pixel.")
}

func mintRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	// The mint cost is the fee plus the deposit for the requested term. When
	// the canvas is at capacity the mint also pays for its own storage slot.
	settings := fetchSettings()
	dep, err := deposit.Calc(termDays, price, settings.TaxPerDay)
	if err != nil {
		log.Fatal(err)
	}

	amount := settings.MintFee + dep
	if settings.TotalPixels >= settings.MaxPixels {
		amount += deposit.PixelMinBalance
	}

	op := database.Op{
		Method:   database.OpMint,
		Pos:      database.Position{X: posX, Y: posY},
		Color:    database.Color{R: colorR, G: colorG, B: colorB},
		TermDays: termDays,
		Price:    price,
	}

	submit(privateKey, op, amount)
}
