// This program is a simple wallet for signing and submitting transactions
// to a ledger node.
package main

import "github.com/ardanlabs/powledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
