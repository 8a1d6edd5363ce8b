// Package config loads the indexer's configuration from defaults, an
// optional file, and environment variables, in that priority order,
// following the teacher's internal/config.LoadConfig layering but over the
// env vars spec.md §6 names as contractual.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved set of external inputs (spec §6).
type Config struct {
	LedgerRPCURL string `mapstructure:"LEDGER_RPC_URL"`

	StoreURI    string `mapstructure:"STORE_URI"`
	StoreDBName string `mapstructure:"STORE_DB_NAME"`

	CollectionFrequency      time.Duration `mapstructure:"-"`
	UserConfigRefreshInterval time.Duration `mapstructure:"-"`

	CollectionFrequencySeconds       int64 `mapstructure:"COLLECTION_FREQUENCY"`
	UserConfigRefreshIntervalSeconds int64 `mapstructure:"USER_CONFIG_REFRESH_INTERVAL"`

	SourceTag  int64 `mapstructure:"SOURCE_TAG"`
	FromLedger int64 `mapstructure:"FROM_LEDGER"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBMaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS"`
}

// SourceTagPtr returns nil when no SOURCE_TAG was configured (0 is not a
// valid XRPL source tag absence marker on the wire, but as an unset env
// default it means "no tag matching": no transaction is marked TagMatched).
func (c *Config) SourceTagPtr() *int64 {
	if c.SourceTag == 0 {
		return nil
	}
	tag := c.SourceTag
	return &tag
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LEDGER_RPC_URL", "http://localhost:51234")
	v.SetDefault("STORE_URI", "postgres://localhost:5432")
	v.SetDefault("STORE_DB_NAME", "xrpl_indexer")
	v.SetDefault("COLLECTION_FREQUENCY", 30)
	v.SetDefault("USER_CONFIG_REFRESH_INTERVAL", 300)
	v.SetDefault("SOURCE_TAG", 0)
	v.SetDefault("FROM_LEDGER", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
}

// Load reads configuration in priority order: defaults, then configFile (if
// non-empty and present), then environment variables. Env var names are
// used verbatim as viper keys, matching spec.md §6's contractual names.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	for _, key := range []string{
		"LEDGER_RPC_URL", "STORE_URI", "STORE_DB_NAME", "COLLECTION_FREQUENCY",
		"USER_CONFIG_REFRESH_INTERVAL", "SOURCE_TAG", "FROM_LEDGER", "LOG_LEVEL",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.CollectionFrequency = time.Duration(cfg.CollectionFrequencySeconds) * time.Second
	cfg.UserConfigRefreshInterval = time.Duration(cfg.UserConfigRefreshIntervalSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the resolved configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.LedgerRPCURL == "" {
		return fmt.Errorf("config: LEDGER_RPC_URL is required")
	}
	if c.StoreURI == "" {
		return fmt.Errorf("config: STORE_URI is required")
	}
	if c.StoreDBName == "" {
		return fmt.Errorf("config: STORE_DB_NAME is required")
	}
	if c.CollectionFrequencySeconds <= 0 {
		return fmt.Errorf("config: COLLECTION_FREQUENCY must be positive")
	}
	return nil
}
