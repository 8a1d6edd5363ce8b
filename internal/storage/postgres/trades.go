package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xrplwallet/indexer/internal/domain"
)

// PutTrade inserts a trade record, deduplicating on
// (hash, maker_address, related_offer_hash) so replaying a transaction
// never double-counts a maker slice (P1).
func (d *Database) PutTrade(ctx context.Context, trade domain.Trade) error {
	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("postgres: put_trade encode: %w", err)
	}

	var relatedOfferHash string
	if trade.RelatedOfferHash != nil {
		relatedOfferHash = *trade.RelatedOfferHash
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO trades (hash, maker_address, related_offer_hash, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash, maker_address, related_offer_hash) DO NOTHING`,
		trade.Hash, trade.MakerAddress, relatedOfferHash, data)
	if err != nil {
		return fmt.Errorf("postgres: put_trade exec: %w", err)
	}
	return nil
}

// ListTrades returns every trade attached to the given related offer hash.
func (d *Database) ListTrades(ctx context.Context, relatedOfferHash string) ([]domain.Trade, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT data FROM trades WHERE related_offer_hash = $1 ORDER BY id`,
		relatedOfferHash)
	if err != nil {
		return nil, fmt.Errorf("postgres: list_trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("postgres: list_trades scan: %w", err)
		}
		var trade domain.Trade
		if err := json.Unmarshal(data, &trade); err != nil {
			return nil, fmt.Errorf("postgres: list_trades decode: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
