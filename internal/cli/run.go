package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appconfig "github.com/xrplwallet/indexer/internal/config"
	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/lifecycle"
	"github.com/xrplwallet/indexer/internal/reconcile"
	"github.com/xrplwallet/indexer/internal/rpcclient"
	"github.com/xrplwallet/indexer/internal/scheduler"
	"github.com/xrplwallet/indexer/internal/storage"
	"github.com/xrplwallet/indexer/internal/storage/postgres"
	"github.com/xrplwallet/indexer/internal/walletpoller"
)

var seedUsers []string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the indexer's polling and reconciliation scheduler",
	RunE:  runIndexer,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if err := runIndexer(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	runCmd.Flags().StringSliceVar(&seedUsers, "seed-user", nil,
		"static default user to seed when storage has no users yet, format id:wallet1,wallet2 (repeatable)")
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	if quiet {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}

func parseSeedUsers(specs []string) ([]domain.UserConfig, error) {
	users := make([]domain.UserConfig, 0, len(specs))
	for _, spec := range specs {
		id, walletsCSV, ok := strings.Cut(spec, ":")
		if !ok || id == "" || walletsCSV == "" {
			return nil, fmt.Errorf("cli: malformed --seed-user %q, want id:wallet1,wallet2", spec)
		}
		users = append(users, domain.UserConfig{
			ID:      id,
			Wallets: strings.Split(walletsCSV, ","),
		})
	}
	return users, nil
}

func runIndexer(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("cli: building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := appconfig.Load(configFile)
	if err != nil {
		return fmt.Errorf("cli: loading configuration: %w", err)
	}

	defaultUsers, err := parseSeedUsers(seedUsers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeConfig, err := storageConfigFrom(cfg)
	if err != nil {
		return fmt.Errorf("cli: building storage config: %w", err)
	}

	store, err := postgres.Open(ctx, storeConfig)
	if err != nil {
		return fmt.Errorf("cli: opening storage: %w", err)
	}
	defer store.Close(context.Background()) //nolint:errcheck

	rpc := rpcclient.New(cfg.LedgerRPCURL, logger)
	machine := lifecycle.New(store, logger)
	poller := walletpoller.New(rpc, store, machine, logger, cfg.FromLedger, cfg.SourceTagPtr())
	reconciler := reconcile.New(rpc, store, logger)

	sched := scheduler.New(store, poller, reconciler, logger, scheduler.Config{
		Period:              cfg.CollectionFrequency,
		UserRefreshInterval: cfg.UserConfigRefreshInterval,
		DefaultUsers:        defaultUsers,
	})

	logger.Info("indexer starting",
		zap.String("ledger_rpc_url", cfg.LedgerRPCURL),
		zap.Duration("collection_frequency", cfg.CollectionFrequency))

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler exited with error", zap.Error(err))
		return err
	}

	logger.Info("indexer shut down cleanly")
	return nil
}

func storageConfigFrom(cfg *appconfig.Config) (*storage.Config, error) {
	base := storage.DefaultConfig()
	base.ConnectionString = storage.ConnectionStringWithDatabase(cfg.StoreURI, cfg.StoreDBName)
	base.MaxOpenConns = cfg.DBMaxOpenConns
	base.MaxIdleConns = cfg.DBMaxIdleConns
	return base, nil
}
