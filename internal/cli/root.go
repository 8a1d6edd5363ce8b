// Package cli wires the indexer's cobra commands, grounded on the teacher's
// internal/cli root-command layout (package-level flag vars registered in
// init, an Execute() entrypoint called once from main).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "indexer",
	Short:   "xrplwallet indexer - per-wallet XRPL transaction indexer",
	Long:    `indexer ingests XRPL account transactions for a configured set of wallets, classifies them, tracks offer lifecycle, and persists everything to PostgreSQL.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (optional, env vars take precedence)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error console output")
}
