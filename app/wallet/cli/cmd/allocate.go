package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/deposit"
)

var allocateCount uint64

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Pre-pay storage slots to grow the canvas capacity",
	Run:   allocateRun,
}

func init() {
	rootCmd.AddCommand(allocateCmd)
	allocateCmd.Flags().Uint64VarP(&allocateCount, "count", "c", 1, "Number of pixel slots to pay for.")
}

func allocateRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	op := database.Op{
		Method: database.OpAllocate,
		Value:  allocateCount,
	}

	submit(privateKey, op, allocateCount*deposit.PixelMinBalance)
}
