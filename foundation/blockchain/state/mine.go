package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// ErrEmptyPool is returned when a block is requested to be mined and there
// are no transactions waiting in the mempool.
var ErrEmptyPool = errors.New("no transactions in mempool")

// =============================================================================

// MinePending mines the pending transactions into a new block crediting the
// miner with the mining reward plus the fees of the transactions. This call
// blocks until a solution is found or the context is cancelled. If mining is
// cancelled, the transactions are put back in the mempool.
func (s *State) MinePending(ctx context.Context, miner signature.PublicKey) (database.Block, error) {
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	s.evHandler("state: MinePending: MINING: check mempool count")

	// Take every pending transaction in one step so a submission racing
	// this call ends up either in this block or the next.
	trans := s.mempool.Drain()
	if len(trans) == 0 {
		return database.Block{}, ErrEmptyPool
	}

	// Pay the miner the reward plus the fees offered by the senders.
	var fees uint64
	for _, tx := range trans {
		fees += tx.Fee
	}
	reward := database.NewRewardTx(miner, s.genesis.MiningReward+fees)
	trans = append(trans, reward)

	s.evHandler("state: MinePending: MINING: reward[%d]: fees[%d]", s.genesis.MiningReward, fees)

	// Stamp the candidate and retarget the difficulty from the time since
	// the latest block.
	latest := s.Latest()
	now := s.clock()
	diff := difficulty.Adjust(latest.Header.TimeStamp, now, latest.Header.Difficulty, s.genesis.BlockTimeTarget())

	s.evHandler("state: MinePending: MINING: difficulty: prev[%d]: new[%d]", latest.Header.Difficulty, diff)

	block := database.NewBlock(latest.Header.Number+1, trans, latest.Hash, miner, s.genesis.MiningReward, diff, now)

	s.evHandler("state: MinePending: MINING: perform POW")

	if err := block.Mine(ctx, s.workers, s.evHandler); err != nil {
		s.mempool.Restore(trans[:len(trans)-1])
		return database.Block{}, fmt.Errorf("mining block %d: %w", block.Header.Number, err)
	}

	s.evHandler("state: MinePending: MINING: append block: blk[%d]: hash[%s]", block.Header.Number, block.Hash)

	if err := s.appendBlock(block); err != nil {
		s.mempool.Restore(trans[:len(trans)-1])
		return database.Block{}, fmt.Errorf("appending block %d: %w", block.Header.Number, err)
	}

	return block.Clone(), nil
}
