// This program performs administrative tasks over a node's block archive.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

// defaultArchive is where the node writes its blocks unless configured
// otherwise.
const defaultArchive = "zblock/blocks/"

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
		return errors.New("usage: admin validate|blocks [archive path]")
	}

	path := defaultArchive
	if len(os.Args) > 2 {
		path = os.Args[2]
	}

	log.Infow("startup", "version", build, "command", os.Args[1], "archive", path)

	archive, err := disk.New(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	return processCommands(os.Args, archive, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, archive *disk.Disk, log *zap.SugaredLogger) error {
	switch args[1] {
	case "validate":
		if err := commands.Validate(os.Stdout, archive, log); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	case "blocks":
		if err := commands.Blocks(os.Stdout, archive); err != nil {
			return fmt.Errorf("printing blocks: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
