// Command indexer is the entrypoint for the per-wallet XRPL transaction
// indexer: it delegates to internal/cli, which wires configuration, storage,
// the ledger RPC client and the scheduler together.
package main

import "github.com/xrplwallet/indexer/internal/cli"

func main() {
	cli.Execute()
}
