package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xrplwallet/indexer/internal/domain"
)

// PutDepositWithdrawal upserts an immutable deposit/withdrawal/internal
// transfer record by hash (spec §4.5).
func (d *Database) PutDepositWithdrawal(ctx context.Context, record domain.DepositWithdrawal) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("postgres: put_deposit_withdrawal encode: %w", err)
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO deposits_withdrawals (hash, data) VALUES ($1, $2)
		ON CONFLICT (hash) DO UPDATE SET data = EXCLUDED.data`,
		record.Hash, data)
	if err != nil {
		return fmt.Errorf("postgres: put_deposit_withdrawal exec: %w", err)
	}
	return nil
}
