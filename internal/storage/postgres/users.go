package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xrplwallet/indexer/internal/domain"
)

// GetUsers returns every persisted UserConfig.
func (d *Database) GetUsers(ctx context.Context) ([]domain.UserConfig, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, wallets FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: get_users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserConfig
	for rows.Next() {
		var id string
		var walletsRaw []byte
		if err := rows.Scan(&id, &walletsRaw); err != nil {
			return nil, fmt.Errorf("postgres: get_users scan: %w", err)
		}
		var wallets []string
		if err := json.Unmarshal(walletsRaw, &wallets); err != nil {
			return nil, fmt.Errorf("postgres: get_users decode wallets: %w", err)
		}
		users = append(users, domain.UserConfig{ID: id, Wallets: wallets})
	}
	return users, rows.Err()
}

// PutUsers upserts the given set of UserConfig records.
func (d *Database) PutUsers(ctx context.Context, users []domain.UserConfig) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: put_users begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (id, wallets) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET wallets = EXCLUDED.wallets`)
	if err != nil {
		return fmt.Errorf("postgres: put_users prepare: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		walletsRaw, err := json.Marshal(u.Wallets)
		if err != nil {
			return fmt.Errorf("postgres: put_users encode wallets: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, u.ID, walletsRaw); err != nil {
			return fmt.Errorf("postgres: put_users exec: %w", err)
		}
	}

	return tx.Commit()
}
