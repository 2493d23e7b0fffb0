package commands

import (
	"fmt"

	"github.com/ardanlabs/canvas/foundation/canvas/database/storage/sqlite"
)

// Dump prints every pixel record found in the ledger database.
//
// Usage: admin dump [db-path]
func Dump(args []string) error {
	dbPath := "zblock/canvas.db"
	if len(args) > 2 {
		dbPath = args[2]
	}

	strg, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	settings, found, err := strg.Settings()
	if err != nil {
		return err
	}
	if found {
		fmt.Printf("settings: mint_fee=%d tax_per_day=%d total=%d max=%d\n",
			settings.MintFee, settings.TaxPerDay, settings.TotalPixels, settings.MaxPixels)
	}

	iter := strg.ForEach()
	var count int
	for {
		pos, pix, err := iter.Next()
		if err != nil {
			return err
		}
		if iter.Done() {
			break
		}

		fmt.Printf("%s owner=%s color=#%02x%02x%02x price=%d deposit=%d term=%dd begin=%d\n",
			pos, pix.Owner, pix.Color.R, pix.Color.G, pix.Color.B, pix.Price, pix.Deposit, pix.TermDays, pix.TermBeginAt)
		count++
	}

	fmt.Printf("%d pixels\n", count)
	return nil
}
