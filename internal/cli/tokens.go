package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrplwallet/indexer/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the whitelisted currencies and trading pairs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Whitelisted tokens:")
		for _, t := range tokens.Tokens {
			fmt.Printf("  %-8s %s\n", t.Symbol, t.Currency)
		}
		fmt.Println("Supported trading pairs:")
		for _, p := range tokens.Pairs {
			fmt.Printf("  %s\n", p.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
