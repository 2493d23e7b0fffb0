package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pixelCmd = &cobra.Command{
	Use:   "pixel",
	Short: "Print the current state of a pixel",
	Run:   pixelRun,
}

func init() {
	rootCmd.AddCommand(pixelCmd)
	addPixelFlags(pixelCmd)
}

func pixelRun(cmd *cobra.Command, args []string) {
	var pix struct {
		Owner     string `json:"owner"`
		OwnerName string `json:"owner_name"`
		Color     struct {
			R uint8 `json:"r"`
			G uint8 `json:"g"`
			B uint8 `json:"b"`
		} `json:"color"`
		TermBeginAt uint64 `json:"term_begin_at"`
		TermDays    uint32 `json:"term_days"`
		Price       uint64 `json:"price"`
		Deposit     uint64 `json:"deposit"`
	}
	get(fmt.Sprintf("/v1/pixel/%d/%d", posX, posY), &pix)

	owner := pix.Owner
	if pix.OwnerName != "" {
		owner = fmt.Sprintf("%s (%s)", pix.OwnerName, pix.Owner)
	}

	fmt.Printf("pixel (%d,%d)\n", posX, posY)
	fmt.Println("  owner:  ", owner)
	fmt.Printf("  color:   #%02x%02x%02x\n", pix.Color.R, pix.Color.G, pix.Color.B)
	fmt.Println("  price:  ", pix.Price)
	fmt.Println("  deposit:", pix.Deposit)
	fmt.Println("  term:   ", pix.TermDays, "days from", pix.TermBeginAt)
}
