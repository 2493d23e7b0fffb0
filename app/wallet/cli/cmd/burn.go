package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn a pixel and reclaim the unspent deposit",
	Run:   burnRun,
}

func init() {
	rootCmd.AddCommand(burnCmd)
	addPixelFlags(burnCmd)
}

func burnRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	op := database.Op{
		Method: database.OpBurn,
		Pos:    database.Position{X: posX, Y: posY},
	}

	submit(privateKey, op, 0)
}
