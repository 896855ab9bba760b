package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.SignedTx {
	return s.mempool.Copy()
}

// Genesis returns a copy of the genesis block.
func (s *State) Genesis() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocks[0].Clone()
}

// Latest returns a copy of the latest block in the chain.
func (s *State) Latest() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocks[len(s.blocks)-1].Clone()
}

// Blocks returns a copy of every block in the chain.
func (s *State) Blocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.blocks))
	for i, block := range s.blocks {
		blocks[i] = block.Clone()
	}

	return blocks
}
