package cmd

import (
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/canvas/foundation/canvas/database"
)

var paintCmd = &cobra.Command{
	Use:   "paint",
	Short: "Change the color of a pixel you own",
	Run:   paintRun,
}

func init() {
	rootCmd.AddCommand(paintCmd)
	addPixelFlags(paintCmd)
	addColorFlags(paintCmd)
}

func paintRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	op := database.Op{
		Method: database.OpUpdateColor,
		Pos:    database.Position{X: posX, Y: posY},
		Color:  database.Color{R: colorR, G: colorG, B: colorB},
	}

	submit(privateKey, op, 0)
}
