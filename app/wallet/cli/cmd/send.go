package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
	fee   uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPrivateKey()
		if err != nil {
			return err
		}

		return sendWithDetails(cmd, key)
	},
}

func sendWithDetails(cmd *cobra.Command, key signature.PrivateKey) error {
	signer, err := signature.Retrieve(scheme)
	if err != nil {
		return err
	}

	tx := database.NewTx(key.Public(), signature.PublicKey(to), value, fee)

	signedTx, err := tx.Sign(signer, key)
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := newClient(nodeURL).post("/v1/tx/submit", signedTx, &resp); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", signedTx, resp.Status)
	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to receive the value.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Fee offered to the miner.")
	sendCmd.MarkFlagRequired("to")
}
