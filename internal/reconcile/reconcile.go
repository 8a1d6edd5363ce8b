// Package reconcile implements the Open-Offer Reconciler (C6, spec §4.6):
// diffing persisted open offers against the ledger's authoritative current
// offer list per account, and inferring fills when an offer silently
// disappears.
package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/rpcclient"
	"github.com/xrplwallet/indexer/internal/storage"
)

// Reconciler runs the periodic open-offer reconciliation pass.
type Reconciler struct {
	rpc    *rpcclient.Client
	store  storage.Store
	logger *zap.Logger
}

// New builds a Reconciler.
func New(rpc *rpcclient.Client, store storage.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{rpc: rpc, store: store, logger: logger}
}

// Run executes one reconciliation pass over every persisted OPEN/
// PARTIALLY_FILLED offer (spec §4.6). It must be invoked strictly after C5
// has processed the cycle's transactions (P6, ordering guarantee).
func (r *Reconciler) Run(ctx context.Context) error {
	offers, err := r.store.ListOpenOffers(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: list_open_offers: %w", err)
	}
	if len(offers) == 0 {
		return nil
	}

	byAccount := map[string][]domain.Offer{}
	for _, o := range offers {
		byAccount[o.Account] = append(byAccount[o.Account], o)
	}

	for account, accountOffers := range byAccount {
		if err := r.reconcileAccount(ctx, account, accountOffers); err != nil {
			r.logger.Error("reconciling account failed", zap.String("account", account), zap.Error(err))
			continue
		}
	}

	return nil
}

func (r *Reconciler) reconcileAccount(ctx context.Context, account string, offers []domain.Offer) error {
	current, err := r.rpc.AccountOffers(ctx, account)
	if err != nil {
		return fmt.Errorf("account_offers: %w", err)
	}

	liveSequences := map[uint32]struct{}{}
	for _, o := range current.Offers {
		liveSequences[o.Sequence] = struct{}{}
	}

	ledgerIndex := current.LedgerCurrentIndex

	for _, offer := range offers {
		// P6: the reconciler only acts on non-terminal offers; ListOpenOffers
		// already guarantees this, but the guard documents the invariant.
		if offer.Status != domain.OfferOpen && offer.Status != domain.OfferPartiallyFilled {
			continue
		}

		if _, stillLive := liveSequences[offer.Sequence]; stillLive {
			lastChecked := ledgerIndex
			patch := storage.OfferPatch{LastCheckedLedger: &lastChecked}
			if err := r.store.UpdateOpenOffer(ctx, offer.Hash, patch); err != nil {
				return fmt.Errorf("update_open_offer(%s): %w", offer.Hash, err)
			}
			continue
		}

		if err := r.inferFill(ctx, offer); err != nil {
			return fmt.Errorf("infer_fill(%s): %w", offer.Hash, err)
		}
	}

	return nil
}

// inferFill implements spec §4.6 step 3's negative branch: the offer's
// sequence is no longer live and no transaction explained why, so it is
// conservatively marked FILLED with the full original amounts as a lower
// bound on liquidity consumed.
func (r *Reconciler) inferFill(ctx context.Context, offer domain.Offer) error {
	gets := offer.TakerGets
	pays := offer.TakerPays
	resolvedLedger := offer.LastCheckedLedger

	offer.Status = domain.OfferFilled
	offer.ResolutionMethod = domain.ResolutionInferred
	offer.FilledGets = &gets
	offer.FilledPays = &pays
	offer.ResolvedLedgerIndex = &resolvedLedger

	if err := r.store.PutFilledOffer(ctx, offer); err != nil {
		return fmt.Errorf("put_filled_offer: %w", err)
	}
	return r.store.DeleteOpenOffer(ctx, offer.Hash)
}
