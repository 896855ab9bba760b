// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powledger/foundation/validate"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	ChainID      uint16    `json:"chain_id"`                             // The chain id represents an unique id for this running instance.
	Difficulty   uint      `json:"difficulty" validate:"required,min=1"` // How difficult it needs to be to solve the work problem for the genesis block.
	MiningReward uint64    `json:"mining_reward"`                        // Reward for mining a block, fees are paid on top.
	BlockTime    uint64    `json:"block_time" validate:"required,min=1"` // Target number of seconds between blocks.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2024, time.September, 26, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   2,
		MiningReward: 50,
		BlockTime:    5,
	}
}

// BlockTimeTarget returns the target time between blocks.
func (g Genesis) BlockTimeTarget() time.Duration {
	return time.Duration(g.BlockTime) * time.Second
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}
