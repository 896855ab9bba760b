package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// SubmitWalletTransaction accepts a transaction from a wallet for inclusion
// in the next mined block.
func (s *State) SubmitWalletTransaction(signedTx database.SignedTx) error {
	n, err := s.mempool.Submit(signedTx)
	if err != nil {
		s.evHandler("state: SubmitWalletTransaction: REJECTED: tx[%s]: %s", signedTx, err)
		return err
	}

	s.evHandler("state: SubmitWalletTransaction: tx[%s]: mempool[%d]", signedTx, n)

	return nil
}
