package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

var termAmount uint64

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Change the term length of a pixel you own",
	Long: `Change the term length of a pixel you own. Extending a term grows the
deposit and requires a payment of exactly the difference; pass it with
--amount. Shrinking the term requires no payment and refunds the difference
net of the tax already accrued.`,
	Run: termRun,
}

func init() {
	rootCmd.AddCommand(termCmd)
	addPixelFlags(termCmd)
	termCmd.Flags().Uint32VarP(&termDays, "term", "t", 30, "New term length in days.")
	termCmd.Flags().Uint64Var(&termAmount, "amount", 0, "Payment for a deposit increase, zero for none.")
}

func termRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	op := database.Op{
		Method:   database.OpUpdateTerm,
		Pos:      database.Position{X: posX, Y: posY},
		TermDays: termDays,
	}

	submit(privateKey, op, termAmount)
}
