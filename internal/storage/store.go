// Package storage defines the Storage Interface (C9, spec §4.9): the
// persistence contract consumed by the lifecycle machine, reconciler and
// wallet poller. The core never depends on a concrete engine directly.
package storage

import (
	"context"
	"errors"

	"github.com/xrplwallet/indexer/internal/domain"
)

// ErrNotFound is returned by lookups that find no matching record.
var ErrNotFound = errors.New("storage: not found")

// OfferPatch carries a partial update to an open offer; nil fields are left
// untouched (spec §4.9 update_open_offer).
type OfferPatch struct {
	Status              *domain.OfferStatus
	LastCheckedLedger   *int64
	FilledGets          *domain.SignedAmount
	FilledPays          *domain.SignedAmount
	ResolvedLedgerIndex *int64
	CancelTxHash        *string
	CancelFeeNative     *domain.SignedAmount
	AppendTrades        []domain.Trade
}

// Store is the contract every component depending on persistence programs
// against (spec §4.9). Implementations must make put_*/update_* operations
// idempotent upserts keyed by hash, per P1.
type Store interface {
	GetUsers(ctx context.Context) ([]domain.UserConfig, error)
	PutUsers(ctx context.Context, users []domain.UserConfig) error

	PutTransaction(ctx context.Context, tx domain.Transaction, userID string) error
	GetLatestLedgerIndex(ctx context.Context, userID, wallet string) (int64, bool, error)

	PutOpenOffer(ctx context.Context, offer domain.Offer) error
	UpdateOpenOffer(ctx context.Context, hash string, patch OfferPatch) error
	DeleteOpenOffer(ctx context.Context, hash string) error
	GetOpenOfferBySequence(ctx context.Context, account string, sequence uint32) (domain.Offer, error)
	ListOpenOffers(ctx context.Context) ([]domain.Offer, error)

	PutFilledOffer(ctx context.Context, offer domain.Offer) error
	PutCanceledOffer(ctx context.Context, offer domain.Offer) error

	PutDepositWithdrawal(ctx context.Context, record domain.DepositWithdrawal) error

	PutTrade(ctx context.Context, trade domain.Trade) error
	ListTrades(ctx context.Context, relatedOfferHash string) ([]domain.Trade, error)

	Close(ctx context.Context) error
}
