package database

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Tx is the transactional information between two parties.
type Tx struct {
	From  signature.PublicKey `json:"from,omitempty"` // Key of the sender. Absent only for a reward.
	To    signature.PublicKey `json:"to"`             // Key receiving the value of the transaction.
	Value uint64              `json:"value"`          // Monetary value received from this transaction.
	Fee   uint64              `json:"fee"`            // Fee offered by the sender as an incentive to mine this transaction.
}

// NewTx constructs a new unsigned transaction.
func NewTx(from signature.PublicKey, to signature.PublicKey, value uint64, fee uint64) Tx {
	return Tx{
		From:  from,
		To:    to,
		Value: value,
		Fee:   fee,
	}
}

// Payload returns the canonical encoding of the transaction. This is what
// gets signed and what represents the transaction inside a block hash.
func (tx Tx) Payload() []byte {
	return digest.NewEncoder("tx").
		String(string(tx.From)).
		String(string(tx.To)).
		Uint(tx.Value).
		Uint(tx.Fee).
		Bytes()
}

// Sign uses the specified signer and private key to sign the transaction.
// An unsigned value is never modified, a signed copy is returned.
func (tx Tx) Sign(signer signature.Signer, key signature.PrivateKey) (SignedTx, error) {
	sig, err := signer.Sign(tx.Payload(), key)
	if err != nil {
		return SignedTx{}, fmt.Errorf("sign tx: %w", err)
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig,
	}

	return signedTx, nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s -> %s: %d (fee: %d)", tx.From.Short(), tx.To.Short(), tx.Value, tx.Fee)
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx
	Signature hexutil.Bytes `json:"signature,omitempty"`
}

// NewRewardTx constructs the sender-less transaction that credits the miner
// of a block. It carries no signature and is never verified.
func NewRewardTx(miner signature.PublicKey, amount uint64) SignedTx {
	return SignedTx{
		Tx: NewTx("", miner, amount, 0),
	}
}

// IsReward tests if the transaction is a miner reward.
func (tx SignedTx) IsReward() bool {
	return tx.From.IsZero()
}

// Verify checks the transaction has a signature produced by the sender over
// the transaction's canonical payload. Any failure reported by the signer,
// including a panic from a misbehaving implementation, is a failed check.
func (tx SignedTx) Verify(signer signature.Signer) (ok bool) {
	if len(tx.Signature) == 0 || tx.From.IsZero() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	return signer.Verify(tx.Payload(), tx.Signature, tx.From)
}

// SignatureString returns the signature as a hex string.
func (tx SignedTx) SignatureString() string {
	if len(tx.Signature) == 0 {
		return ""
	}

	return tx.Signature.String()
}
