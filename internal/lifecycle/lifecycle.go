// Package lifecycle implements the Order Lifecycle State Machine (C5, spec
// §4.5): applying a classified, enriched transaction's nature to the Offer
// and DepositWithdrawal entities through storage.Store.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/storage"
	"github.com/xrplwallet/indexer/internal/trade"
)

// ErrInvariantViolation signals a bug, not a data condition (spec §7): a
// negative filled amount or similarly impossible state. Callers should treat
// this as fatal.
var ErrInvariantViolation = errors.New("lifecycle: invariant violation")

// Machine applies transaction natures to the offer/deposit state machine.
type Machine struct {
	store  storage.Store
	logger *zap.Logger
}

// New builds a Machine over the given store.
func New(store storage.Store, logger *zap.Logger) *Machine {
	return &Machine{store: store, logger: logger}
}

// Apply dispatches tx (already classified by C3, enriched by C2) to the
// action matching its nature, for the given userID.
func (m *Machine) Apply(ctx context.Context, tx domain.Transaction, userID string) error {
	switch tx.Nature {
	case domain.NatureOfferOpen:
		return m.applyOfferOpen(ctx, tx, userID)
	case domain.NatureOfferFilled:
		return m.applyOfferFilled(ctx, tx, userID)
	case domain.NatureOfferCancel:
		return m.applyOfferCancel(ctx, tx)
	case domain.NatureMarketTrade:
		if err := m.applyOwnOfferConsumption(ctx, tx, userID); err != nil {
			return err
		}
		return nil
	case domain.NatureDeposit, domain.NatureWithdrawal, domain.NatureInternalTransfer:
		return m.applyMovement(ctx, tx, userID)
	case domain.NatureOther:
		return nil
	default:
		return nil
	}
}

func (m *Machine) applyOfferOpen(ctx context.Context, tx domain.Transaction, userID string) error {
	if tx.TakerGets == nil || tx.TakerPays == nil {
		m.logger.Warn("offer_open missing TakerGets/TakerPays", zap.String("hash", tx.Hash))
		return nil
	}

	offer := domain.Offer{
		Hash:               tx.Hash,
		Account:            tx.Account,
		Sequence:           tx.Sequence,
		UserID:             userID,
		CreatedLedgerIndex: tx.LedgerIndex,
		LastCheckedLedger:  tx.LedgerIndex,
		TakerGets:          *tx.TakerGets,
		TakerPays:          *tx.TakerPays,
		Status:             domain.OfferOpen,
		CreatedDate:        tx.Timestamp,
		CreateFeeNative:    tx.FeeNative,
		ResolutionMethod:   domain.ResolutionDirect,
	}
	return m.store.PutOpenOffer(ctx, offer)
}

func (m *Machine) applyOfferFilled(ctx context.Context, tx domain.Transaction, userID string) error {
	ownGets, ownPays, err := ownFillAmounts(tx, tx.Account)
	if err != nil {
		m.logger.Warn("offer_filled missing own balance changes", zap.String("hash", tx.Hash), zap.Error(err))
		return nil
	}

	trades := trade.Extract(tx)

	var takerGets, takerPays amount.Amount
	if tx.TakerGets != nil {
		takerGets = *tx.TakerGets
	} else {
		takerGets = ownGets
	}
	if tx.TakerPays != nil {
		takerPays = *tx.TakerPays
	} else {
		takerPays = ownPays
	}

	offer := domain.Offer{
		Hash:               tx.Hash,
		Account:            tx.Account,
		Sequence:           tx.Sequence,
		UserID:             userID,
		CreatedLedgerIndex: tx.LedgerIndex,
		LastCheckedLedger:  tx.LedgerIndex,
		ResolvedLedgerIndex: &tx.LedgerIndex,
		TakerGets:           takerGets,
		TakerPays:           takerPays,
		FilledGets:          &ownGets,
		FilledPays:          &ownPays,
		Status:              domain.OfferFilled,
		CreatedDate:         tx.Timestamp,
		ResolvedDate:        &tx.Timestamp,
		Trades:              trades,
		CreateFeeNative:     tx.FeeNative,
		ResolutionMethod:     domain.ResolutionDirect,
	}
	return m.store.PutFilledOffer(ctx, offer)
}

// ownFillAmounts derives (gets, pays) magnitudes from account's own balance
// changes: the negative-delta currency is what account gave up (gets from
// the taker's perspective), the positive-delta currency is what it received.
func ownFillAmounts(tx domain.Transaction, account string) (amount.Amount, amount.Amount, error) {
	for _, bc := range tx.BalanceChanges {
		if bc.Account != account {
			continue
		}
		var negative, positive *domain.SignedAmount
		for i := range bc.Balances {
			b := bc.Balances[i]
			if b.Currency == amount.NativeCurrency && isFeeOnly(b, tx.FeeNative) {
				continue
			}
			if b.Sign < 0 {
				negative = &bc.Balances[i]
			} else if b.Sign > 0 {
				positive = &bc.Balances[i]
			}
		}
		if negative != nil && positive != nil {
			return negative.Magnitude(), positive.Magnitude(), nil
		}
	}
	return amount.Amount{}, amount.Amount{}, fmt.Errorf("lifecycle: no matching balance changes for %s", account)
}

func isFeeOnly(b domain.SignedAmount, feeNative amount.Amount) bool {
	if b.Sign >= 0 {
		return false
	}
	return amount.WithinTolerance(b.Value.Value, feeNative.Value, amount.NativeTolerance)
}

func (m *Machine) applyOfferCancel(ctx context.Context, tx domain.Transaction) error {
	offer, err := m.store.GetOpenOfferBySequence(ctx, tx.Account, tx.OfferSequence)
	if errors.Is(err, storage.ErrNotFound) {
		m.logger.Warn("offer_cancel references unknown offer",
			zap.String("account", tx.Account), zap.Uint32("sequence", tx.OfferSequence))
		return nil
	}
	if err != nil {
		return fmt.Errorf("lifecycle: offer_cancel lookup: %w", err)
	}

	cancelHash := tx.Hash
	cancelFee := tx.FeeNative

	switch offer.Status {
	case domain.OfferOpen:
		offer.Status = domain.OfferCanceled
		offer.ResolutionMethod = domain.ResolutionDirect
		offer.CancelTxHash = &cancelHash
		offer.CancelFeeNative = &cancelFee
		offer.ResolvedDate = &tx.Timestamp
		offer.ResolvedLedgerIndex = &tx.LedgerIndex
		if err := m.store.PutCanceledOffer(ctx, offer); err != nil {
			return fmt.Errorf("lifecycle: put_canceled_offer: %w", err)
		}
	case domain.OfferPartiallyFilled:
		offer.Status = domain.OfferFilled
		offer.ResolutionMethod = domain.ResolutionDirect
		offer.CancelTxHash = &cancelHash
		offer.CancelFeeNative = &cancelFee
		offer.ResolvedDate = &tx.Timestamp
		offer.ResolvedLedgerIndex = &tx.LedgerIndex
		if err := m.store.PutFilledOffer(ctx, offer); err != nil {
			return fmt.Errorf("lifecycle: put_filled_offer: %w", err)
		}
	default:
		// I5: terminal offers are never mutated further.
		return nil
	}

	return m.store.DeleteOpenOffer(ctx, offer.Hash)
}

// applyOwnOfferConsumption implements the market_trade / Payment-with-own-
// offer-consumed branch of spec §4.5: any offer node owned by one of the
// user's addresses transitions the matching OPEN/PARTIALLY_FILLED offer.
func (m *Machine) applyOwnOfferConsumption(ctx context.Context, tx domain.Transaction, userID string) error {
	trades := trade.Extract(tx)

	for _, on := range tx.OfferNodes {
		if on.Kind == domain.OfferNodeCreated {
			continue
		}

		offer, err := m.store.GetOpenOfferBySequence(ctx, on.Account, on.Sequence)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("lifecycle: own-offer lookup: %w", err)
		}
		if offer.UserID != "" && offer.UserID != userID {
			continue
		}

		if err := m.applyOfferNodeTransition(ctx, offer, on, tx, trades); err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) applyOfferNodeTransition(ctx context.Context, offer domain.Offer, on domain.OfferNode, tx domain.Transaction, trades []domain.Trade) error {
	originalGets := offer.TakerGets
	originalPays := offer.TakerPays

	var remainingGets, remainingPays amount.Amount
	if on.FinalTakerGets != nil {
		remainingGets = *on.FinalTakerGets
	} else {
		remainingGets = amount.Zero(originalGets.Currency, originalGets.Issuer)
	}
	if on.FinalTakerPays != nil {
		remainingPays = *on.FinalTakerPays
	} else {
		remainingPays = amount.Zero(originalPays.Currency, originalPays.Issuer)
	}

	filledGets, err := amount.Diff(remainingGets, originalGets)
	if err != nil {
		return fmt.Errorf("%w: filled_gets: %v", ErrInvariantViolation, err)
	}
	filledPays, err := amount.Diff(remainingPays, originalPays)
	if err != nil {
		return fmt.Errorf("%w: filled_pays: %v", ErrInvariantViolation, err)
	}
	if filledGets.Value.GreaterThan(originalGets.Value) || filledPays.Value.GreaterThan(originalPays.Value) {
		return fmt.Errorf("%w: filled amount exceeds original for offer %s", ErrInvariantViolation, offer.Hash)
	}

	var matching []domain.Trade
	for _, t := range trades {
		if t.MakerAddress == on.Account {
			matching = append(matching, t)
		}
	}

	if on.Kind == domain.OfferNodeDeleted {
		offer.Status = domain.OfferFilled
		offer.FilledGets = &filledGets
		offer.FilledPays = &filledPays
		offer.ResolvedDate = &tx.Timestamp
		offer.ResolvedLedgerIndex = &tx.LedgerIndex
		offer.ResolutionMethod = domain.ResolutionDirect
		offer.Trades = append(offer.Trades, matching...)
		if err := m.store.PutFilledOffer(ctx, offer); err != nil {
			return fmt.Errorf("lifecycle: put_filled_offer: %w", err)
		}
		return m.store.DeleteOpenOffer(ctx, offer.Hash)
	}

	status := domain.OfferPartiallyFilled
	lastChecked := tx.LedgerIndex
	patch := storage.OfferPatch{
		Status:            &status,
		LastCheckedLedger: &lastChecked,
		AppendTrades:      matching,
	}
	filledGetsSigned := domain.SignedAmount{Currency: filledGets.Currency, Issuer: filledGets.Issuer, Value: filledGets, Sign: 1}
	filledPaysSigned := domain.SignedAmount{Currency: filledPays.Currency, Issuer: filledPays.Issuer, Value: filledPays, Sign: 1}
	patch.FilledGets = &filledGetsSigned
	patch.FilledPays = &filledPaysSigned

	return m.store.UpdateOpenOffer(ctx, offer.Hash, patch)
}

func (m *Machine) applyMovement(ctx context.Context, tx domain.Transaction, userID string) error {
	var targetAccount string
	switch tx.Nature {
	case domain.NatureDeposit:
		targetAccount = tx.Destination
	default:
		targetAccount = tx.Account
	}

	amt, ok := movementAmount(tx, targetAccount)
	if !ok {
		m.logger.Warn("movement transaction with no usable balance change", zap.String("hash", tx.Hash))
		return nil
	}

	feeNative := tx.FeeNative
	if tx.Nature == domain.NatureDeposit {
		// The external submitter paid this fee, not us (spec §3, scenario 6).
		feeNative = amount.Zero(amount.NativeCurrency, "")
	}

	record := domain.DepositWithdrawal{
		Hash:        tx.Hash,
		LedgerIndex: tx.LedgerIndex,
		Timestamp:   tx.Timestamp,
		FromAddress: tx.Account,
		ToAddress:   tx.Destination,
		Amount:      amt,
		Type:        tx.Nature,
		UserID:      userID,
		FeeNative:   feeNative,
	}
	return m.store.PutDepositWithdrawal(ctx, record)
}

// movementAmount picks the balance change of account that is not explained
// by the fee (spec §4.5 deposit/withdrawal/internal_transfer action).
func movementAmount(tx domain.Transaction, account string) (amount.Amount, bool) {
	for _, bc := range tx.BalanceChanges {
		if bc.Account != account {
			continue
		}
		for _, b := range bc.Balances {
			if b.Currency == amount.NativeCurrency && isFeeOnly(b, tx.FeeNative) {
				continue
			}
			return b.Magnitude(), true
		}
	}
	if tx.Amount != nil {
		return *tx.Amount, true
	}
	return amount.Amount{}, false
}
