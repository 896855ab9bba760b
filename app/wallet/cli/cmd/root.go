// Package cmd contains wallet app
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	nodeURL     string
	scheme      string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().StringVarP(&scheme, "scheme", "s", signature.SchemeSecp256k1, "Signature scheme of the key, it must match the node.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Your simple ledger wallet",
	SilenceUsage: true,
}

// Execute runs the wallet command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() (string, error) {
	ext, err := signature.KeyExt(scheme)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(accountName, filepath.Ext(accountName))
	return filepath.Join(accountPath, name+ext), nil
}

func loadPrivateKey() (signature.FileKey, error) {
	path, err := getPrivateKeyPath()
	if err != nil {
		return nil, err
	}

	return signature.LoadKey(path)
}
