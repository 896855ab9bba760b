// Package mempool maintains the pool of signed transactions waiting to be
// mined into a block.
package mempool

import (
	"errors"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// ErrInvalidSignature is returned when a transaction is submitted that
// doesn't carry a valid signature from its sender.
var ErrInvalidSignature = errors.New("transaction signature is invalid")

// Mempool represents the set of pending transactions in the order they
// were submitted. There is no deduplication or balance checking.
type Mempool struct {
	mu     sync.Mutex
	pool   []database.SignedTx
	signer signature.Signer
}

// New constructs a mempool that verifies transactions with the signer.
func New(signer signature.Signer) *Mempool {
	return &Mempool{
		signer: signer,
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.pool)
}

// Submit verifies the transaction's signature and adds it to the end of
// the pool, returning the new size of the pool. A transaction that fails
// verification is not added.
func (mp *Mempool) Submit(tx database.SignedTx) (int, error) {
	if !tx.Verify(mp.signer) {
		return 0, ErrInvalidSignature
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool), nil
}

// Drain empties the pool and returns what it held.
func (mp *Mempool) Drain() []database.SignedTx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	return trans
}

// Restore puts previously drained transactions back at the front of the
// pool, ahead of anything submitted since the drain.
func (mp *Mempool) Restore(trans []database.SignedTx) {
	if len(trans) == 0 {
		return
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.SignedTx, 0, len(trans)+len(mp.pool))
	pool = append(pool, trans...)
	pool = append(pool, mp.pool...)
	mp.pool = pool
}

// Copy returns a copy of the pending transactions in order.
func (mp *Mempool) Copy() []database.SignedTx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	cpy := make([]database.SignedTx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
