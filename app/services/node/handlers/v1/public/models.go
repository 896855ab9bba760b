package public

import (
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// submitTx is the payload a wallet posts to add a transaction.
type submitTx struct {
	From      signature.PublicKey `json:"from" validate:"required"`
	To        signature.PublicKey `json:"to" validate:"required"`
	Value     uint64              `json:"value"`
	Fee       uint64              `json:"fee"`
	Signature hexutil.Bytes       `json:"signature" validate:"required"`
}

func (st submitTx) toSignedTx() database.SignedTx {
	return database.SignedTx{
		Tx:        database.NewTx(st.From, st.To, st.Value, st.Fee),
		Signature: st.Signature,
	}
}

type tx struct {
	From     signature.PublicKey `json:"from,omitempty"`
	FromName string              `json:"from_name,omitempty"`
	To       signature.PublicKey `json:"to"`
	ToName   string              `json:"to_name"`
	Value    uint64              `json:"value"`
	Fee      uint64              `json:"fee"`
	Reward   bool                `json:"reward,omitempty"`
	Sig      string              `json:"sig,omitempty"`
}

type block struct {
	Number        uint64              `json:"number"`
	PrevBlockHash string              `json:"prev_block_hash"`
	TimeStamp     time.Time           `json:"timestamp"`
	Difficulty    uint                `json:"difficulty"`
	Nonce         uint64              `json:"nonce"`
	MinerAccount  signature.PublicKey `json:"miner_account,omitempty"`
	MinerName     string              `json:"miner_name,omitempty"`
	MiningReward  uint64              `json:"mining_reward"`
	TotalFees     uint64              `json:"total_fees"`
	Hash          string              `json:"hash"`
	Transactions  []tx                `json:"txs"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Index  uint64 `json:"index,omitempty"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================

func toTx(ns *nameservice.NameService, tran database.SignedTx) tx {
	t := tx{
		From:   tran.From,
		To:     tran.To,
		ToName: ns.Lookup(tran.To),
		Value:  tran.Value,
		Fee:    tran.Fee,
		Reward: tran.IsReward(),
		Sig:    tran.SignatureString(),
	}
	if !tran.From.IsZero() {
		t.FromName = ns.Lookup(tran.From)
	}

	return t
}

func toTxs(ns *nameservice.NameService, trans []database.SignedTx) []tx {
	out := make([]tx, len(trans))
	for i, tran := range trans {
		out[i] = toTx(ns, tran)
	}

	return out
}

func toBlock(ns *nameservice.NameService, blk database.Block) block {
	b := block{
		Number:        blk.Header.Number,
		PrevBlockHash: blk.Header.PrevBlockHash,
		TimeStamp:     blk.Header.TimeStamp,
		Difficulty:    blk.Header.Difficulty,
		Nonce:         blk.Header.Nonce,
		MinerAccount:  blk.Header.MinerAccount,
		MiningReward:  blk.Header.MiningReward,
		TotalFees:     blk.TotalFees(),
		Hash:          blk.Hash,
		Transactions:  toTxs(ns, blk.Trans),
	}
	if !blk.Header.MinerAccount.IsZero() {
		b.MinerName = ns.Lookup(blk.Header.MinerAccount)
	}

	return b
}

func toBlocks(ns *nameservice.NameService, blks []database.Block) []block {
	out := make([]block, len(blks))
	for i, blk := range blks {
		out[i] = toBlock(ns, blk)
	}

	return out
}
