// Package classify implements the Classifier (C3, spec §4.3): a pure
// decision table mapping an enriched transaction and the owning user's
// wallet set onto a domain.Nature. It touches nothing but its inputs.
package classify

import (
	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
)

const txResultSuccess = "tesSUCCESS"

// WalletSet reports membership of an address in the current user's wallets.
type WalletSet interface {
	OwnsAddress(addr string) bool
}

// Classify decides tx.Nature given the wire transaction type/result and the
// derived balance changes/offer nodes already attached to tx. It never
// mutates tx; callers assign the returned Nature.
func Classify(tx domain.Transaction, wireType string, txResult string, wallets WalletSet) domain.Nature {
	if txResult != txResultSuccess {
		return domain.NatureOther
	}

	switch wireType {
	case "Payment":
		return classifyPayment(tx, wallets)
	case "OfferCreate":
		return classifyOfferCreate(tx, wallets)
	case "OfferCancel":
		return domain.NatureOfferCancel
	default:
		return domain.NatureOther
	}
}

func classifyPayment(tx domain.Transaction, wallets WalletSet) domain.Nature {
	senderOwned := wallets.OwnsAddress(tx.Account)
	destOwned := tx.Destination != "" && wallets.OwnsAddress(tx.Destination)

	// Tie-break: a self-payment across currencies is classified as
	// internal_transfer even though it also satisfies the market-trade
	// condition below (spec §4.3 tie-break rule).
	if senderOwned && destOwned {
		return domain.NatureInternalTransfer
	}
	if senderOwned && !destOwned {
		if isMarketTrade(tx, tx.Account) {
			return domain.NatureMarketTrade
		}
		return domain.NatureWithdrawal
	}
	if !senderOwned && destOwned {
		return domain.NatureDeposit
	}
	if isMarketTrade(tx, tx.Account) {
		return domain.NatureMarketTrade
	}
	return domain.NatureOther
}

// isMarketTrade reports whether the sender's own balance changes span two or
// more distinct currencies (excluding a fee-only native delta), or whether
// any offer node in the transaction was modified or deleted.
func isMarketTrade(tx domain.Transaction, account string) bool {
	distinctCurrencies := map[string]struct{}{}
	for _, bc := range tx.BalanceChanges {
		if bc.Account != account {
			continue
		}
		for _, b := range bc.Balances {
			if b.Currency == amount.NativeCurrency && isFeeOnly(b, tx.FeeNative) {
				continue
			}
			distinctCurrencies[b.Currency+"/"+b.Issuer] = struct{}{}
		}
	}
	if len(distinctCurrencies) >= 2 {
		return true
	}

	for _, on := range tx.OfferNodes {
		if on.Kind == domain.OfferNodeModified || on.Kind == domain.OfferNodeDeleted {
			return true
		}
	}
	return false
}

// isFeeOnly reports whether a native balance change is explained entirely by
// the transaction fee, within the tolerance spec §4.2 mandates.
func isFeeOnly(b domain.SignedAmount, feeNative amount.Amount) bool {
	if b.Sign >= 0 {
		return false
	}
	return amount.WithinTolerance(b.Value.Value, feeNative.Value, amount.NativeTolerance)
}

func classifyOfferCreate(tx domain.Transaction, wallets WalletSet) domain.Nature {
	account := tx.Account

	var ownBalanceChange *domain.BalanceChange
	for i := range tx.BalanceChanges {
		if tx.BalanceChanges[i].Account == account {
			ownBalanceChange = &tx.BalanceChanges[i]
			break
		}
	}

	createdOwnOffer := false
	for _, on := range tx.OfferNodes {
		if on.Kind == domain.OfferNodeCreated && on.Account == account {
			createdOwnOffer = true
			break
		}
	}

	nonFeeBalanceChange := ownBalanceChange != nil && hasNonFeeChange(*ownBalanceChange, tx.FeeNative)

	// Per spec §9's defended heuristic, both signals must agree that the
	// offer rested untouched before calling it offer_open; any disagreement
	// falls through to offer_filled and the reconciler cleans up later.
	if nonFeeBalanceChange || !createdOwnOffer {
		return domain.NatureOfferFilled
	}
	return domain.NatureOfferOpen
}

func hasNonFeeChange(bc domain.BalanceChange, feeNative amount.Amount) bool {
	for _, b := range bc.Balances {
		if b.Currency != amount.NativeCurrency {
			return true
		}
		if !isFeeOnly(b, feeNative) {
			return true
		}
	}
	return false
}
