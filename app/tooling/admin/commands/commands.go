// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"go.uber.org/zap"
)

// Validate reads every block in the archive and checks the chain.
func Validate(w io.Writer, archive database.Serializer, log *zap.SugaredLogger) error {
	blocks, err := database.ReadAll(archive)
	if err != nil {
		return err
	}

	ev := func(v string, args ...any) {
		log.Debugf(v, args...)
	}

	if err := database.ValidateChain(blocks, ev); err != nil {
		return err
	}

	fmt.Fprintf(w, "chain of %d blocks is valid\n", len(blocks))
	return nil
}

// Blocks prints every block in the archive.
func Blocks(w io.Writer, archive database.Serializer) error {
	blocks, err := database.ReadAll(archive)
	if err != nil {
		return err
	}

	for _, block := range blocks {
		fmt.Fprintln(w, block)
	}

	return nil
}
