package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/validate"
	"go.uber.org/zap/zaptest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var signer = signature.Secp256k1{}

type keys struct {
	alice *signature.Secp256k1Key
	bob   *signature.Secp256k1Key
	miner *signature.Secp256k1Key
}

func loadKeys(t *testing.T) keys {
	load := func(hex string) *signature.Secp256k1Key {
		k, err := signature.HexToSecp256k1Key(hex)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load a private key: %s", failed, err)
		}
		return k
	}

	return keys{
		alice: load("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"),
		bob:   load("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"),
		miner: load("9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"),
	}
}

// stepClock returns a clock that moves forward by step on every call.
func stepClock(step time.Duration) state.Clock {
	now := time.Date(2024, time.September, 26, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func newState(t *testing.T, step time.Duration, archive database.Serializer) *state.State {
	log := zaptest.NewLogger(t).Sugar()

	cfg := state.Config{
		Genesis:       genesis.Default(),
		Signer:        signer,
		Clock:         stepClock(step),
		MiningWorkers: 1,
		Archive:       archive,
		EvHandler: func(v string, args ...any) {
			log.Debugf(v, args...)
		},
	}

	st, err := state.New(cfg)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
	}

	return st
}

func submit(t *testing.T, st *state.State, from signature.PrivateKey, to signature.PublicKey, value uint64, fee uint64) {
	tx, err := database.NewTx(from.Public(), to, value, fee).Sign(signer, from)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign transaction: %s", failed, err)
	}

	if err := st.SubmitWalletTransaction(tx); err != nil {
		t.Fatalf("\t%s\tShould be able to submit transaction: %s", failed, err)
	}
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a new chain.")
	{
		st := newState(t, time.Second, nil)

		t.Logf("\tTest 0:\tWhen constructing the state.")
		{
			gen := st.Genesis()
			if gen.Header.Number != 0 || gen.Header.PrevBlockHash != database.GenesisPrevHash || len(gen.Trans) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould get an empty genesis block, got %+v.", failed, gen.Header)
			}
			t.Logf("\t%s\tTest 0:\tShould get an empty genesis block.", success)

			if gen.Header.Difficulty != genesis.Default().Difficulty {
				t.Fatalf("\t%s\tTest 0:\tShould use the initial difficulty, got %d.", failed, gen.Header.Difficulty)
			}
			t.Logf("\t%s\tTest 0:\tShould use the initial difficulty.", success)

			if st.Latest().Hash != gen.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould have genesis as the latest block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have genesis as the latest block.", success)

			if err := st.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate a genesis only chain: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate a genesis only chain.", success)
		}
	}
}

func Test_GenesisRejected(t *testing.T) {
	type table struct {
		name   string
		mutate func(g *genesis.Genesis)
		field  string
	}

	tt := []table{
		{name: "difficulty", mutate: func(g *genesis.Genesis) { g.Difficulty = 0 }, field: "difficulty"},
		{name: "blocktime", mutate: func(g *genesis.Genesis) { g.BlockTime = 0 }, field: "block_time"},
	}

	t.Log("Given the need to refuse an unusable genesis.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				gen := genesis.Default()
				tst.mutate(&gen)

				_, err := state.New(state.Config{Genesis: gen, Signer: signer})
				if !validate.IsFieldErrors(err) {
					t.Fatalf("\t%s\tTest %d:\tShould get field errors, got %v.", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)

				if _, exists := validate.GetFieldErrors(err).Fields()[tst.field]; !exists {
					t.Fatalf("\t%s\tTest %d:\tShould name the %s field, got %v.", failed, testID, tst.field, err)
				}
				t.Logf("\t%s\tTest %d:\tShould name the %s field.", success, testID, tst.field)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MinePending(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to mine pending transactions.")
	{
		st := newState(t, time.Second, nil)

		submit(t, st, k.alice, k.bob.Public(), 50, 2)
		submit(t, st, k.bob, k.alice.Public(), 25, 1)

		t.Logf("\tTest 0:\tWhen mining a block one second after genesis.")
		{
			block, err := st.MinePending(context.Background(), k.miner.Public())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine a block.", success)

			if block.Header.Number != 1 || block.Header.PrevBlockHash != st.Genesis().Hash {
				t.Fatalf("\t%s\tTest 0:\tShould link to the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link to the genesis block.", success)

			if block.Header.Difficulty != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould raise the difficulty to 3, got %d.", failed, block.Header.Difficulty)
			}
			t.Logf("\t%s\tTest 0:\tShould raise the difficulty to 3.", success)

			if block.Hash[:3] != "000" || block.RecomputeHash() != block.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould carry a solved hash, got %s.", failed, block.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould carry a solved hash.", success)

			if len(block.Trans) != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould hold two transactions and the reward, got %d.", failed, len(block.Trans))
			}
			if block.Trans[0].Value != 50 || block.Trans[1].Value != 25 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the submission order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the submission order.", success)

			reward := block.Trans[2]
			if !reward.IsReward() || reward.To != k.miner.Public() || reward.Value != 53 {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, reward)
				t.Fatalf("\t%s\tTest 0:\tShould pay the miner 50 plus 3 in fees.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould pay the miner 50 plus 3 in fees.", success)

			if block.Header.MiningReward != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould record the base reward, got %d.", failed, block.Header.MiningReward)
			}
			t.Logf("\t%s\tTest 0:\tShould record the base reward.", success)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould empty the mempool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould empty the mempool.", success)

			if err := st.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate the chain: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)
		}
	}
}

func Test_EmptyPool(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to refuse mining without transactions.")
	{
		st := newState(t, time.Second, nil)

		_, err := st.MinePending(context.Background(), k.miner.Public())
		if !errors.Is(err, state.ErrEmptyPool) {
			t.Fatalf("\t%s\tTest 0:\tShould get ErrEmptyPool, got %v.", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould get ErrEmptyPool.", success)

		if len(st.Blocks()) != 1 {
			t.Fatalf("\t%s\tTest 0:\tShould not add a block.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould not add a block.", success)
	}
}

func Test_InvalidSubmission(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to reject forged transactions.")
	{
		st := newState(t, time.Second, nil)

		tx, err := database.NewTx(k.alice.Public(), k.bob.Public(), 50, 0).Sign(signer, k.bob)
		if err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to sign transaction: %s", failed, err)
		}

		if err := st.SubmitWalletTransaction(tx); !errors.Is(err, mempool.ErrInvalidSignature) {
			t.Fatalf("\t%s\tTest 0:\tShould get ErrInvalidSignature, got %v.", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould get ErrInvalidSignature.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tTest 0:\tShould leave the mempool empty.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould leave the mempool empty.", success)
	}
}

func Test_CancelRestoresPool(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to stop mining on request.")
	{
		st := newState(t, time.Second, nil)

		submit(t, st, k.alice, k.bob.Public(), 10, 1)
		submit(t, st, k.bob, k.alice.Public(), 20, 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := st.MinePending(ctx, k.miner.Public())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tTest 0:\tShould get context.Canceled, got %v.", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould get context.Canceled.", success)

		pool := st.RetrieveMempool()
		if len(pool) != 2 || pool[0].Value != 10 || pool[1].Value != 20 {
			t.Fatalf("\t%s\tTest 0:\tShould put the transactions back in order, got %d.", failed, len(pool))
		}
		t.Logf("\t%s\tTest 0:\tShould put the transactions back in order.", success)

		if len(st.Blocks()) != 1 {
			t.Fatalf("\t%s\tTest 0:\tShould not add a block.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould not add a block.", success)
	}
}

func Test_ManyBlocks(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to grow the chain over several blocks.")
	{
		archive := memory.New()
		st := newState(t, 5*time.Second, archive)

		const blocks = 4
		for i := range blocks {
			submit(t, st, k.alice, k.bob.Public(), uint64(i+1), 0)

			if _, err := st.MinePending(context.Background(), k.miner.Public()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine block %d: %s", failed, i+1, err)
			}
		}
		t.Logf("\t%s\tTest 0:\tShould be able to mine %d blocks.", success, blocks)

		if st.Latest().Header.Number != blocks {
			t.Fatalf("\t%s\tTest 0:\tShould have block %d as the latest.", failed, blocks)
		}
		t.Logf("\t%s\tTest 0:\tShould have block %d as the latest.", success, blocks)

		for _, block := range st.Blocks() {
			if block.Header.Difficulty != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould hold difficulty at target pace, got %d.", failed, block.Header.Difficulty)
			}
		}
		t.Logf("\t%s\tTest 0:\tShould hold difficulty at target pace.", success)

		if err := st.Validate(); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould validate the chain: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)

		stored, err := database.ReadAll(archive)
		if err != nil || len(stored) != blocks+1 {
			t.Fatalf("\t%s\tTest 0:\tShould archive every block: %v", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould archive every block.", success)

		if got := st.QueryBlocksByNumber(2, state.QueryLatest); len(got) != blocks-1 {
			t.Fatalf("\t%s\tTest 0:\tShould query a range of blocks, got %d.", failed, len(got))
		}
		t.Logf("\t%s\tTest 0:\tShould query a range of blocks.", success)

		if got := st.QueryBlocksByAccount(k.bob.Public()); len(got) != blocks {
			t.Fatalf("\t%s\tTest 0:\tShould query blocks by account, got %d.", failed, len(got))
		}
		t.Logf("\t%s\tTest 0:\tShould query blocks by account.", success)

		if err := st.Shutdown(); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould shutdown cleanly: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould shutdown cleanly.", success)
	}
}

func Test_BlocksAreCopies(t *testing.T) {
	k := loadKeys(t)

	t.Log("Given the need to protect the chain from callers.")
	{
		st := newState(t, 5*time.Second, nil)
		submit(t, st, k.alice, k.bob.Public(), 10, 1)

		if _, err := st.MinePending(context.Background(), k.miner.Public()); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %s", failed, err)
		}

		blocks := st.Blocks()
		blocks[1].Trans[0].Value = 1_000
		blocks[1].Hash = "tampered"

		if err := st.Validate(); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould not be affected by changes to a copy: %s", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould not be affected by changes to a copy.", success)
	}
}
