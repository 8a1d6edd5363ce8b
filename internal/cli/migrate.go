package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appconfig "github.com/xrplwallet/indexer/internal/config"
	"github.com/xrplwallet/indexer/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the PostgreSQL schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(configFile)
		if err != nil {
			return fmt.Errorf("cli: loading configuration: %w", err)
		}

		storeConfig, err := storageConfigFrom(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := postgres.Open(ctx, storeConfig)
		if err != nil {
			return fmt.Errorf("cli: opening storage: %w", err)
		}
		defer db.Close(ctx) //nolint:errcheck

		if !quiet {
			fmt.Println("Schema is up to date.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
