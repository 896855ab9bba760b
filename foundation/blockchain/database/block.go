package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded in the genesis block.
const GenesisPrevHash = "0"

// cancelCheckInterval is how many nonce attempts happen between checks of
// the context during mining.
const cancelCheckInterval = 1 << 16

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64              `json:"number"`          // Position of the block in the chain.
	TimeStamp     time.Time           `json:"timestamp"`       // Time the block was constructed.
	PrevBlockHash string              `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Difficulty    uint                `json:"difficulty"`      // Number of 0's needed to solve the hash solution.
	Nonce         uint64              `json:"nonce"`           // Value identified to solve the hash solution.
	MinerAccount  signature.PublicKey `json:"miner,omitempty"` // The key of the miner, absent for genesis.
	MiningReward  uint64              `json:"mining_reward"`   // Fixed reward paid for mining the block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []SignedTx
	Hash   string
}

// NewBlock constructs a block stamped with the specified time. The hash is
// computed immediately and will change once the block is mined.
func NewBlock(number uint64, trans []SignedTx, prevHash string, miner signature.PublicKey, reward uint64, difficulty uint, now time.Time) Block {
	b := Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     now.UTC(),
			PrevBlockHash: prevHash,
			Difficulty:    difficulty,
			Nonce:         0,
			MinerAccount:  miner,
			MiningReward:  reward,
		},
		Trans: trans,
	}
	b.Hash = b.RecomputeHash()

	return b
}

// NewGenesisBlock constructs the first block in the chain. It holds no
// transactions, has no miner and is never mined.
func NewGenesisBlock(difficulty uint, now time.Time) Block {
	return NewBlock(0, nil, GenesisPrevHash, "", 0, difficulty, now)
}

// RecomputeHash calculates the hash for the block's current field values
// without changing the block.
func (b Block) RecomputeHash() string {
	return b.hashNonce(b.hashPrefix(), b.Header.Nonce)
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	cpy := b
	if b.Trans != nil {
		cpy.Trans = make([]SignedTx, len(b.Trans))
		for i, tx := range b.Trans {
			cpy.Trans[i] = tx
			cpy.Trans[i].Signature = append([]byte(nil), tx.Signature...)
		}
	}

	return cpy
}

// TotalFees returns the sum of the fees offered by the block's transactions.
func (b Block) TotalFees() uint64 {
	var total uint64
	for _, tx := range b.Trans {
		total += tx.Fee
	}

	return total
}

// String renders the block for display.
func (b Block) String() string {
	var sb strings.Builder

	trans := make([]string, len(b.Trans))
	for i, tx := range b.Trans {
		trans[i] = tx.String()
	}

	fmt.Fprintf(&sb, "Block #%d\n", b.Header.Number)
	fmt.Fprintf(&sb, "Transactions: [%s]\n", strings.Join(trans, ", "))
	fmt.Fprintf(&sb, "Timestamp: %s\n", b.Header.TimeStamp.Format(time.RFC3339Nano))
	fmt.Fprintf(&sb, "Previous Hash: %s\n", b.Header.PrevBlockHash)
	fmt.Fprintf(&sb, "Miner Address: %s\n", b.Header.MinerAccount.Short())
	fmt.Fprintf(&sb, "Reward: %d\n", b.Header.MiningReward)
	fmt.Fprintf(&sb, "Difficulty: %d\n", b.Header.Difficulty)
	fmt.Fprintf(&sb, "Hash: %s\n", b.Hash)
	fmt.Fprintf(&sb, "Nonce: %d\n", b.Header.Nonce)

	return sb.String()
}

// =============================================================================

// Mine performs the work to find a nonce that solves the cryptographic POW
// puzzle. Pointer semantics are being used since the nonce and hash are
// updated in place. When workers is greater than one, the nonce space is
// split across that many goroutines and the first solution found wins.
// Mining stops with the context's error if the context is cancelled.
func (b *Block) Mine(ctx context.Context, workers int, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]: workers[%d]", b.Header.Number, b.Header.Difficulty, workers)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Header.Number)

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	if ctx.Err() != nil {
		ev("database: Mine: MINING: CANCELLED")
		return ctx.Err()
	}

	// The starting nonce may already solve the puzzle.
	b.Header.Nonce = 0
	b.Hash = b.RecomputeHash()
	if digest.IsSolved(b.Hash, b.Header.Difficulty) {
		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, b.Hash)
		return nil
	}

	if workers <= 1 {
		return b.mineSerial(ctx, ev)
	}

	return b.mineParallel(ctx, workers, ev)
}

// mineSerial increments the nonce by one until a solution is found.
func (b *Block) mineSerial(ctx context.Context, ev func(v string, args ...any)) error {
	prefix := b.hashPrefix()

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		b.Header.Nonce++
		b.Hash = b.hashNonce(prefix, b.Header.Nonce)
		if !digest.IsSolved(b.Hash, b.Header.Difficulty) {
			continue
		}

		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, b.Hash)
		ev("database: Mine: MINING: attempts[%d]", attempts)

		return nil
	}
}

// mineParallel splits the nonce space between the workers. Worker w tries
// nonces w+1, w+1+workers, w+1+2*workers and so on.
func (b *Block) mineParallel(ctx context.Context, workers int, ev func(v string, args ...any)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := b.hashPrefix()
	difficulty := b.Header.Difficulty
	step := uint64(workers)

	// Each worker sends at most once so the buffer keeps them from blocking.
	found := make(chan uint64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func(start uint64) {
			defer wg.Done()

			var attempts uint64
			for nonce := start; ; nonce += step {
				attempts++
				if attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
					return
				}

				if digest.IsSolved(b.hashNonce(prefix, nonce), difficulty) {
					found <- nonce
					return
				}
			}
		}(uint64(w) + 1)
	}

	select {
	case nonce := <-found:
		cancel()
		wg.Wait()

		b.Header.Nonce = nonce
		b.Hash = b.RecomputeHash()
		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, b.Hash)

		return nil

	case <-ctx.Done():
		wg.Wait()
		ev("database: Mine: MINING: CANCELLED")

		return ctx.Err()
	}
}

// hashPrefix encodes the fields that come before the nonce. The order of the
// fields is part of the canonical encoding and must not change.
func (b Block) hashPrefix() *digest.Encoder {
	var trans []byte
	for _, tx := range b.Trans {
		trans = append(trans, tx.Payload()...)
	}

	return digest.NewEncoder("block").
		Uint(b.Header.Number).
		Int(b.Header.TimeStamp.UnixNano()).
		Raw(trans).
		String(b.Header.PrevBlockHash)
}

// hashNonce completes the encoding started by hashPrefix for the specified
// nonce and returns the hash.
func (b Block) hashNonce(prefix *digest.Encoder, nonce uint64) string {
	data := prefix.Clone().
		Uint(nonce).
		String(string(b.Header.MinerAccount)).
		Uint(b.Header.MiningReward).
		Bytes()

	return digest.Hash(data)
}
