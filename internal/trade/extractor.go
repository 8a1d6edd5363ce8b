// Package trade implements the Trade Extractor (C4, spec §4.4): building
// maker-side Trade records from a transaction's balance changes, falling
// back to offer-node diffs when balance changes yield nothing.
package trade

import (
	"errors"
	"sort"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
)

var errNoPrevious = errors.New("trade: offer node has no previous TakerGets/TakerPays")

// Extract returns the Trade records for tx, attributing the taker side to
// tx.Account and the maker side to every other account touched.
func Extract(tx domain.Transaction) []domain.Trade {
	trades := fromBalanceChanges(tx)
	if len(trades) == 0 {
		trades = fromOfferNodes(tx)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].MakerAddress != trades[j].MakerAddress {
			return trades[i].MakerAddress < trades[j].MakerAddress
		}
		si, sj := sequenceOf(trades[i]), sequenceOf(trades[j])
		return si < sj
	})
	return trades
}

func sequenceOf(t domain.Trade) uint32 {
	if t.RelatedOfferSequence == nil {
		return 0
	}
	return *t.RelatedOfferSequence
}

// fromBalanceChanges implements spec §4.4 steps 1-2: for every account other
// than the taker, if its balance changes show exactly one positive and one
// negative currency (ignoring fee-only native noise), synthesize a Trade.
func fromBalanceChanges(tx domain.Transaction) []domain.Trade {
	var trades []domain.Trade

	for _, bc := range tx.BalanceChanges {
		if bc.Account == tx.Account {
			continue
		}

		var positive, negative *domain.SignedAmount
		multiplePositive, multipleNegative := false, false
		for i := range bc.Balances {
			b := bc.Balances[i]
			if b.Currency == amount.NativeCurrency && isFeeOnlyNoise(b) {
				continue
			}
			switch {
			case b.Sign > 0:
				if positive != nil {
					multiplePositive = true
				}
				positive = &bc.Balances[i]
			case b.Sign < 0:
				if negative != nil {
					multipleNegative = true
				}
				negative = &bc.Balances[i]
			}
		}
		if positive == nil || negative == nil || multiplePositive || multipleNegative {
			continue
		}

		tr := domain.Trade{
			Hash:         tx.Hash,
			LedgerIndex:  tx.LedgerIndex,
			Timestamp:    tx.Timestamp,
			TakerAddress: tx.Account,
			MakerAddress: bc.Account,
			SoldAmount:   negative.Magnitude(),
			BoughtAmount: positive.Magnitude(),
			FeeNative:    tx.FeeNative,
		}
		if on := matchingOfferNode(tx, bc.Account); on != nil {
			seq := on.Sequence
			tr.RelatedOfferSequence = &seq
			if on.PreviousTxnID != "" {
				id := on.PreviousTxnID
				tr.RelatedOfferHash = &id
			}
		}
		trades = append(trades, tr)
	}

	return trades
}

// isFeeOnlyNoise excludes only zero-valued entries. The taker's own balance
// changes (the only ones that carry the fee) are skipped by the caller, so a
// non-zero native delta on any other account is treated as a traded leg.
func isFeeOnlyNoise(b domain.SignedAmount) bool {
	return b.Value.IsZero()
}

func matchingOfferNode(tx domain.Transaction, account string) *domain.OfferNode {
	for i := range tx.OfferNodes {
		if tx.OfferNodes[i].Account == account {
			return &tx.OfferNodes[i]
		}
	}
	return nil
}

// fromOfferNodes implements spec §4.4 step 3: the fallback path when
// balance-change analysis produced nothing. One Trade is emitted per
// modified/deleted offer node, computing the consumed slice as the diff
// between previous and final remaining amounts. A node without previous
// TakerGets/TakerPays (including a DeletedNode with no PreviousFields), or
// whose consumed slice is zero on both sides, yields no Trade.
func fromOfferNodes(tx domain.Transaction) []domain.Trade {
	var trades []domain.Trade

	for _, on := range tx.OfferNodes {
		if on.Kind == domain.OfferNodeCreated {
			continue
		}

		gets, err := consumedSlice(on.PreviousTakerGets, on.FinalTakerGets)
		if err != nil {
			continue
		}
		pays, err := consumedSlice(on.PreviousTakerPays, on.FinalTakerPays)
		if err != nil {
			continue
		}
		if gets.IsZero() && pays.IsZero() {
			continue
		}

		seq := on.Sequence
		tr := domain.Trade{
			Hash:                 tx.Hash,
			LedgerIndex:          tx.LedgerIndex,
			Timestamp:            tx.Timestamp,
			TakerAddress:         tx.Account,
			MakerAddress:         on.Account,
			SoldAmount:           gets,
			BoughtAmount:         pays,
			RelatedOfferSequence: &seq,
			FeeNative:            tx.FeeNative,
		}
		if on.PreviousTxnID != "" {
			id := on.PreviousTxnID
			tr.RelatedOfferHash = &id
		}
		trades = append(trades, tr)
	}

	return trades
}

// consumedSlice computes diff(previous, final), treating a DeletedNode's
// absent final amount (nil) as zero remaining.
func consumedSlice(previous, final *amount.Amount) (amount.Amount, error) {
	if previous == nil {
		return amount.Amount{}, errNoPrevious
	}
	finalAmt := amount.Zero(previous.Currency, previous.Issuer)
	if final != nil {
		finalAmt = *final
	}
	return amount.Diff(*previous, finalAmt)
}
