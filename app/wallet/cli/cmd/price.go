package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

var priceAmount uint64

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Change the self-assessed price of a pixel you own",
	Long: `Change the self-assessed price of a pixel you own. Raising the price
grows the deposit and requires a payment of exactly the difference; pass it
with --amount. Lowering the price requires no payment and refunds the
difference net of the tax already accrued.`,
	Run: priceRun,
}

func init() {
	rootCmd.AddCommand(priceCmd)
	addPixelFlags(priceCmd)
	priceCmd.Flags().Uint64Var(&price, "price", 1_000_000, "New self-assessed price for the pixel.")
	priceCmd.Flags().Uint64Var(&priceAmount, "amount", 0, "Payment for a deposit increase, zero for none.")
}

func priceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	op := database.Op{
		Method: database.OpUpdatePrice,
		Pos:    database.Position{X: posX, Y: posY},
		Price:  price,
	}

	submit(privateKey, op, priceAmount)
}
