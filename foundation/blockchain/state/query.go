package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers. The
// range is inclusive and clipped to the blocks that exist.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := uint64(len(s.blocks) - 1)
	if from == QueryLatest {
		from = latest
		to = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		out = append(out, s.blocks[i].Clone())
	}

	return out
}

// QueryBlocksByAccount returns the set of blocks holding a transaction sent
// or received by the account, or mined by it. If the account is empty, all
// blocks are returned.
func (s *State) QueryBlocksByAccount(account signature.PublicKey) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.blocks {
		if account.IsZero() || block.Header.MinerAccount == account {
			out = append(out, block.Clone())
			continue
		}

		for _, tx := range block.Trans {
			if tx.From == account || tx.To == account {
				out = append(out, block.Clone())
				break
			}
		}
	}

	return out
}
