package database

import (
	"errors"
	"fmt"
)

// Set of reasons a chain can fail validation.
var (
	ErrTamperedHash = errors.New("block hash does not match its contents")
	ErrBrokenLink   = errors.New("block is not linked to the previous block")
)

// ValidationError identifies the first block that failed validation.
type ValidationError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %s", ve.Index, ve.Err)
}

// Unwrap provides support for errors.Is against the reason.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// ValidateChain walks the blocks after genesis checking each block's hash
// matches its contents and that it links to its parent. It stops at the
// first failure and reports it as a *ValidationError.
func ValidateChain(blocks []Block, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	for i := 1; i < len(blocks); i++ {
		blk := blocks[i]

		evHandler("database: ValidateChain: validate: blk[%d]: check: block hash matches block contents", i)

		if blk.Hash != blk.RecomputeHash() {
			return &ValidationError{Index: uint64(i), Err: ErrTamperedHash}
		}

		evHandler("database: ValidateChain: validate: blk[%d]: check: parent hash does match parent block", i)

		if blk.Header.PrevBlockHash != blocks[i-1].Hash {
			return &ValidationError{Index: uint64(i), Err: ErrBrokenLink}
		}
	}

	return nil
}
