package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) error {
	var resp struct {
		Valid  bool   `json:"valid"`
		Blocks int    `json:"blocks"`
		Index  uint64 `json:"index"`
		Error  string `json:"error"`
	}
	if err := newClient(nodeURL).get("/v1/chain/validate", &resp); err != nil {
		return err
	}

	if !resp.Valid {
		return fmt.Errorf("chain invalid at block %d: %s", resp.Index, resp.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "chain of %d blocks is valid\n", resp.Blocks)
	return nil
}
