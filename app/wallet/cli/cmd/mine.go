package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine its pending transactions",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var blk struct {
		Number       uint64 `json:"number"`
		Difficulty   uint   `json:"difficulty"`
		Nonce        uint64 `json:"nonce"`
		Hash         string `json:"hash"`
		MinerName    string `json:"miner_name"`
		MiningReward uint64 `json:"mining_reward"`
		TotalFees    uint64 `json:"total_fees"`
	}
	if err := newClient(nodeURL).post("/v1/mining/mine", nil, &blk); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Block #%d mined by %s\n", blk.Number, blk.MinerName)
	fmt.Fprintf(cmd.OutOrStdout(), "Difficulty: %d\nNonce: %d\nHash: %s\n", blk.Difficulty, blk.Nonce, blk.Hash)
	fmt.Fprintf(cmd.OutOrStdout(), "Reward: %d + %d in fees\n", blk.MiningReward, blk.TotalFees)
	return nil
}
