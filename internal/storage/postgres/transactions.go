package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xrplwallet/indexer/internal/domain"
)

// PutTransaction upserts the enriched transaction by hash (spec §4.9,
// idempotent per P1).
func (d *Database) PutTransaction(ctx context.Context, tx domain.Transaction, userID string) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("postgres: put_transaction encode: %w", err)
	}

	var destination interface{}
	if tx.Destination != "" {
		destination = tx.Destination
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO transactions (hash, user_id, account, destination, ledger_index, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (hash) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			account = EXCLUDED.account,
			destination = EXCLUDED.destination,
			ledger_index = EXCLUDED.ledger_index,
			data = EXCLUDED.data`,
		tx.Hash, userID, tx.Account, destination, tx.LedgerIndex, data)
	if err != nil {
		return fmt.Errorf("postgres: put_transaction exec: %w", err)
	}
	return nil
}

// GetLatestLedgerIndex returns max(ledger_index) over transactions where the
// wallet is source or destination for the given user (spec §4.9).
func (d *Database) GetLatestLedgerIndex(ctx context.Context, userID, wallet string) (int64, bool, error) {
	var idx sql.NullInt64
	err := d.db.QueryRowContext(ctx, `
		SELECT MAX(ledger_index) FROM transactions
		WHERE user_id = $1 AND (account = $2 OR destination = $2)`,
		userID, wallet).Scan(&idx)
	if err != nil {
		return 0, false, fmt.Errorf("postgres: get_latest_ledger_index: %w", err)
	}
	if !idx.Valid {
		return 0, false, nil
	}
	return idx.Int64, true, nil
}
