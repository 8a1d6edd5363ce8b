package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/storage"
)

// PutOpenOffer inserts a new OPEN offer (spec §4.5 offer_open action).
func (d *Database) PutOpenOffer(ctx context.Context, offer domain.Offer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("postgres: put_open_offer encode: %w", err)
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO open_offers (hash, account, sequence, status, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hash) DO UPDATE SET
			account = EXCLUDED.account, sequence = EXCLUDED.sequence,
			status = EXCLUDED.status, data = EXCLUDED.data`,
		offer.Hash, offer.Account, offer.Sequence, string(offer.Status), data)
	if err != nil {
		return fmt.Errorf("postgres: put_open_offer exec: %w", err)
	}
	return nil
}

// UpdateOpenOffer applies a partial patch to a persisted open offer
// (spec §4.5/§4.6 transitions to PARTIALLY_FILLED and last_checked_ledger
// bumps). Callers that move an offer to a terminal status should use
// PutFilledOffer/PutCanceledOffer followed by DeleteOpenOffer instead.
func (d *Database) UpdateOpenOffer(ctx context.Context, hash string, patch storage.OfferPatch) error {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: update_open_offer begin: %w", err)
	}
	defer sqlTx.Rollback()

	var data []byte
	err = sqlTx.QueryRowContext(ctx, `SELECT data FROM open_offers WHERE hash = $1 FOR UPDATE`, hash).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: update_open_offer select: %w", err)
	}

	var offer domain.Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		return fmt.Errorf("postgres: update_open_offer decode: %w", err)
	}

	applyOfferPatch(&offer, patch)

	newData, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("postgres: update_open_offer encode: %w", err)
	}
	_, err = sqlTx.ExecContext(ctx, `
		UPDATE open_offers SET status = $1, data = $2 WHERE hash = $3`,
		string(offer.Status), newData, hash)
	if err != nil {
		return fmt.Errorf("postgres: update_open_offer exec: %w", err)
	}

	return sqlTx.Commit()
}

func applyOfferPatch(offer *domain.Offer, patch storage.OfferPatch) {
	if patch.Status != nil {
		offer.Status = *patch.Status
	}
	if patch.LastCheckedLedger != nil {
		offer.LastCheckedLedger = *patch.LastCheckedLedger
	}
	if patch.FilledGets != nil {
		v := patch.FilledGets.Magnitude()
		offer.FilledGets = &v
	}
	if patch.FilledPays != nil {
		v := patch.FilledPays.Magnitude()
		offer.FilledPays = &v
	}
	if patch.ResolvedLedgerIndex != nil {
		offer.ResolvedLedgerIndex = patch.ResolvedLedgerIndex
	}
	if patch.CancelTxHash != nil {
		offer.CancelTxHash = patch.CancelTxHash
	}
	if patch.CancelFeeNative != nil {
		v := patch.CancelFeeNative.Magnitude()
		offer.CancelFeeNative = &v
	}
	if len(patch.AppendTrades) > 0 {
		offer.Trades = append(offer.Trades, patch.AppendTrades...)
	}
}

// DeleteOpenOffer removes an offer from the open-offer store, used once it
// has been written to filled_offers/canceled_offers.
func (d *Database) DeleteOpenOffer(ctx context.Context, hash string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM open_offers WHERE hash = $1`, hash)
	if err != nil {
		return fmt.Errorf("postgres: delete_open_offer: %w", err)
	}
	return nil
}

// GetOpenOfferBySequence looks up the open offer owned by (account,
// sequence), per spec §4.5's offer_cancel lookup.
func (d *Database) GetOpenOfferBySequence(ctx context.Context, account string, sequence uint32) (domain.Offer, error) {
	var data []byte
	err := d.db.QueryRowContext(ctx, `
		SELECT data FROM open_offers WHERE account = $1 AND sequence = $2`,
		account, sequence).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Offer{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Offer{}, fmt.Errorf("postgres: get_open_offer_by_sequence: %w", err)
	}
	var offer domain.Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		return domain.Offer{}, fmt.Errorf("postgres: get_open_offer_by_sequence decode: %w", err)
	}
	return offer, nil
}

// ListOpenOffers returns every OPEN/PARTIALLY_FILLED offer, used by the
// reconciler (spec §4.6 step 1).
func (d *Database) ListOpenOffers(ctx context.Context) ([]domain.Offer, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT data FROM open_offers ORDER BY account, sequence`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list_open_offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("postgres: list_open_offers scan: %w", err)
		}
		var offer domain.Offer
		if err := json.Unmarshal(data, &offer); err != nil {
			return nil, fmt.Errorf("postgres: list_open_offers decode: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// PutFilledOffer upserts a terminal FILLED record (append-only in practice;
// upsert keeps replays idempotent per P1).
func (d *Database) PutFilledOffer(ctx context.Context, offer domain.Offer) error {
	return d.putTerminalOffer(ctx, "filled_offers", offer)
}

// PutCanceledOffer upserts a terminal CANCELED record.
func (d *Database) PutCanceledOffer(ctx context.Context, offer domain.Offer) error {
	return d.putTerminalOffer(ctx, "canceled_offers", offer)
}

func (d *Database) putTerminalOffer(ctx context.Context, table string, offer domain.Offer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("postgres: put_terminal_offer encode: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (hash, data) VALUES ($1, $2)
		ON CONFLICT (hash) DO UPDATE SET data = EXCLUDED.data`, table)
	if _, err := d.db.ExecContext(ctx, query, offer.Hash, data); err != nil {
		return fmt.Errorf("postgres: put_terminal_offer exec: %w", err)
	}
	return nil
}
