// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/validate"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Clock supplies the time used to stamp new blocks.
type Clock func() time.Time

// =============================================================================

// Config represents the configuration required to start
// the blockchain.
type Config struct {
	Genesis       genesis.Genesis
	Signer        signature.Signer
	Clock         Clock
	MiningWorkers int
	Archive       database.Serializer
	EvHandler     EventHandler
}

// State manages the blockchain in memory.
type State struct {
	mu      sync.RWMutex
	mineMu  sync.Mutex
	blocks  []database.Block
	genesis genesis.Genesis
	signer  signature.Signer
	clock   Clock
	workers int

	evHandler EventHandler
	mempool   *mempool.Mempool
	archive   database.Serializer
}

// New constructs a new blockchain starting from a freshly stamped genesis
// block.
func New(cfg Config) (*State, error) {
	if cfg.Signer == nil {
		return nil, errors.New("a signer must be provided")
	}

	// A zero difficulty would let any hash solve a block.
	if err := validate.Check(cfg.Genesis); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	workers := cfg.MiningWorkers
	if workers < 1 {
		workers = 1
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		genesis:   cfg.Genesis,
		signer:    cfg.Signer,
		clock:     clock,
		workers:   workers,
		evHandler: ev,
		mempool:   mempool.New(cfg.Signer),
		archive:   cfg.Archive,
	}

	gen := database.NewGenesisBlock(cfg.Genesis.Difficulty, clock())
	if err := state.appendBlock(gen); err != nil {
		return nil, err
	}

	ev("state: New: genesis: blk[%s]: difficulty[%d]", gen.Hash, gen.Header.Difficulty)

	return &state, nil
}

// Shutdown cleanly brings the blockchain down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Wait for any mining operation in flight to finish.
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	if s.archive != nil {
		return s.archive.Close()
	}

	return nil
}

// appendBlock adds the block to the end of the chain and writes it to the
// archive if one is configured.
func (s *State) appendBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.archive != nil {
		s.evHandler("state: appendBlock: write to archive: blk[%d]", block.Header.Number)

		if err := s.archive.Write(database.NewBlockData(block)); err != nil {
			return err
		}
	}

	s.blocks = append(s.blocks, block)

	return nil
}
