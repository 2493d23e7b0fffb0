// This program performs administrative tasks for the canvas service.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ardanlabs/canvas/app/tooling/admin/commands"
	"github.com/ardanlabs/canvas/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	if len(os.Args) < 2 {
		return errors.New("commands: genesis | fee | tax | dump")
	}

	return processCommands(os.Args)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string) error {
	switch args[1] {
	case "genesis":
		if err := commands.Genesis(args); err != nil {
			return fmt.Errorf("creating genesis: %w", err)
		}
	case "fee":
		if err := commands.UpdateMintFee(args); err != nil {
			return fmt.Errorf("updating mint fee: %w", err)
		}
	case "tax":
		if err := commands.UpdateTaxPerDay(args); err != nil {
			return fmt.Errorf("updating tax per day: %w", err)
		}
	case "dump":
		if err := commands.Dump(args); err != nil {
			return fmt.Errorf("dumping ledger: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
