// Package postgres implements storage.Store on top of PostgreSQL, one table
// per entity family with a jsonb payload column, following the teacher's
// relationaldb/postgres package conventions (pooled *sql.DB, sentinel
// errors, context-scoped timeouts) applied to the indexer's own schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver

	"github.com/xrplwallet/indexer/internal/storage"
)

// Database implements storage.Store backed by a PostgreSQL connection pool.
type Database struct {
	db     *sql.DB
	config *storage.Config
}

var _ storage.Store = (*Database)(nil)

// Open opens the connection pool, pings it, and runs the schema migration.
func Open(ctx context.Context, config *storage.Config) (*Database, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("postgres: invalid configuration: %w", err)
	}

	connStr, err := config.BuildConnectionString()
	if err != nil {
		return nil, fmt.Errorf("postgres: building connection string: %w", err)
	}

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("postgres: %w: %v", storage.ErrConnectionFailed, err)
	}

	db := &Database{db: sqlDB, config: config}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("postgres: migrating schema: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	wallets JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	hash TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	account TEXT NOT NULL,
	destination TEXT,
	ledger_index BIGINT NOT NULL,
	data JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_ledger ON transactions (user_id, ledger_index);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account);
CREATE INDEX IF NOT EXISTS idx_transactions_destination ON transactions (destination);

CREATE TABLE IF NOT EXISTS open_offers (
	hash TEXT PRIMARY KEY,
	account TEXT NOT NULL,
	sequence BIGINT NOT NULL,
	status TEXT NOT NULL,
	data JSONB NOT NULL,
	UNIQUE (account, sequence)
);

CREATE TABLE IF NOT EXISTS filled_offers (
	hash TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS canceled_offers (
	hash TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS deposits_withdrawals (
	hash TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	id BIGSERIAL PRIMARY KEY,
	hash TEXT NOT NULL,
	maker_address TEXT NOT NULL,
	related_offer_hash TEXT NOT NULL DEFAULT '',
	data JSONB NOT NULL,
	UNIQUE (hash, maker_address, related_offer_hash)
);
CREATE INDEX IF NOT EXISTS idx_trades_related_offer ON trades (related_offer_hash);
`

func (d *Database) migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, schema)
	return err
}
