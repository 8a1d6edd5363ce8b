// Package metadata implements the Metadata Analyzer (C2, spec §4.2): turning
// a transaction's raw AffectedNodes diff into per-account balance changes
// and tagged offer-node diffs, with the fee-isolation bookkeeping the
// classifier and lifecycle machine rely on.
package metadata

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/xrplwire"
)

// Result is the analyzer's output (spec §4.2 outputs 1 and 2).
type Result struct {
	BalanceChanges []domain.BalanceChange
	OfferNodes     []domain.OfferNode
	FeeNative      amount.Amount
	Valid          bool // false when metadata was absent or an unexpanded string placeholder
}

type addChangeFunc func(account, currency, issuer string, delta decimal.Decimal)

// Analyze derives balance changes and offer-node diffs from a transaction's
// decoded metadata. Per spec §4.2, malformed/absent/placeholder metadata is
// not an error: it yields empty outputs and Valid=false so the classifier
// can mark the transaction `other`.
func Analyze(tx xrplwire.Transaction, logger *zap.Logger) Result {
	feeWhole, feeErr := amount.FromDrops(tx.TxJSON.Fee)
	var feeNative amount.Amount
	if feeErr != nil {
		if logger != nil {
			logger.Warn("invalid transaction fee, treating as zero", zap.String("hash", tx.Hash), zap.Error(feeErr))
		}
		feeNative = amount.Amount{Currency: amount.NativeCurrency}
	} else {
		feeNative = amount.Amount{Currency: amount.NativeCurrency, Value: feeWhole.Abs()}
	}

	if !tx.Meta.Valid() {
		return Result{FeeNative: feeNative, Valid: false}
	}

	changes := map[string]map[string]*domain.SignedAmount{}
	addChange := func(account, currency, issuer string, delta decimal.Decimal) {
		if delta.IsZero() {
			return
		}
		byCurrency, ok := changes[account]
		if !ok {
			byCurrency = map[string]*domain.SignedAmount{}
			changes[account] = byCurrency
		}
		key := currency + "/" + issuer
		existing, ok := byCurrency[key]
		if !ok {
			byCurrency[key] = &domain.SignedAmount{
				Currency: currency,
				Issuer:   issuer,
				Value:    amount.Amount{Currency: currency, Issuer: issuer, Value: delta.Abs()},
				Sign:     int(delta.Sign()),
			}
			return
		}
		combined := existing.Value.Value
		if existing.Sign < 0 {
			combined = combined.Neg()
		}
		combined = combined.Add(delta)
		existing.Value.Value = combined.Abs()
		existing.Sign = int(combined.Sign())
	}

	var offerNodes []domain.OfferNode

	for _, node := range tx.Meta.AffectedNodes {
		switch node.LedgerEntryType {
		case xrplwire.EntryTypeAccountRoot:
			analyzeAccountRoot(node, addChange, logger)
		case xrplwire.EntryTypeRippleState:
			analyzeRippleState(node, addChange, logger)
		case xrplwire.EntryTypeOffer:
			if on, ok := offerNodeFromWire(node, logger); ok {
				offerNodes = append(offerNodes, on)
			}
		}
	}

	result := Result{FeeNative: feeNative, Valid: true, OfferNodes: offerNodes}
	for account, byCurrency := range changes {
		bc := domain.BalanceChange{Account: account}
		for _, v := range byCurrency {
			bc.Balances = append(bc.Balances, *v)
		}
		sort.Slice(bc.Balances, func(i, j int) bool {
			if bc.Balances[i].Currency != bc.Balances[j].Currency {
				return bc.Balances[i].Currency < bc.Balances[j].Currency
			}
			return bc.Balances[i].Issuer < bc.Balances[j].Issuer
		})
		result.BalanceChanges = append(result.BalanceChanges, bc)
	}
	sort.Slice(result.BalanceChanges, func(i, j int) bool {
		return result.BalanceChanges[i].Account < result.BalanceChanges[j].Account
	})

	return result
}

// decodeDropsField unmarshals a bare-string drops field into a signed decimal
// of whole units.
func decodeDropsField(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return decimal.Decimal{}, err
	}
	return amount.FromDrops(s)
}

func analyzeAccountRoot(node xrplwire.AffectedNode, addChange addChangeFunc, logger *zap.Logger) {
	acct, ok := node.Account()
	if !ok {
		return
	}

	finalRaw, finalOK := node.FinalFields["Balance"]
	if !finalOK {
		finalRaw, finalOK = node.NewFields["Balance"]
	}
	if !finalOK {
		return
	}
	finalVal, err := decodeDropsField(finalRaw)
	if err != nil {
		if logger != nil {
			logger.Warn("unparseable AccountRoot balance", zap.String("account", string(acct)), zap.Error(err))
		}
		return
	}

	prevVal := finalVal
	if prevRaw, ok := node.PreviousFields["Balance"]; ok {
		v, err := decodeDropsField(prevRaw)
		if err != nil {
			if logger != nil {
				logger.Warn("unparseable AccountRoot previous balance", zap.String("account", string(acct)), zap.Error(err))
			}
			return
		}
		prevVal = v
	}

	addChange(string(acct), amount.NativeCurrency, "", finalVal.Sub(prevVal))
}

// trustLineAmount mirrors the {currency,issuer,value} shape the ledger uses
// for RippleState's Balance/LowLimit/HighLimit fields.
type trustLineAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

func decodeTrustLineAmount(raw json.RawMessage) (trustLineAmount, error) {
	var t trustLineAmount
	err := json.Unmarshal(raw, &t)
	return t, err
}

// analyzeRippleState attributes a trust-line balance move to both accounts
// on the line. The ledger always stores RippleState's Balance from the "low"
// account's perspective (LowLimit.issuer sorts before HighLimit.issuer);
// a positive balance there means the high account owes the low account, so
// the high account's delta is the exact negation.
func analyzeRippleState(node xrplwire.AffectedNode, addChange addChangeFunc, logger *zap.Logger) {
	lowRaw, lowOK := node.FinalFields["LowLimit"]
	if !lowOK {
		lowRaw, lowOK = node.NewFields["LowLimit"]
	}
	highRaw, highOK := node.FinalFields["HighLimit"]
	if !highOK {
		highRaw, highOK = node.NewFields["HighLimit"]
	}
	finalBalRaw, finalOK := node.FinalFields["Balance"]
	if !finalOK {
		finalBalRaw, finalOK = node.NewFields["Balance"]
	}
	if !lowOK || !highOK || !finalOK {
		return
	}

	low, err1 := decodeTrustLineAmount(lowRaw)
	high, err2 := decodeTrustLineAmount(highRaw)
	finalBal, err3 := decodeTrustLineAmount(finalBalRaw)
	if err1 != nil || err2 != nil || err3 != nil {
		if logger != nil {
			logger.Warn("unparseable RippleState node", zap.Error(err1), zap.Error(err2), zap.Error(err3))
		}
		return
	}

	finalVal, err := decimal.NewFromString(finalBal.Value)
	if err != nil {
		return
	}
	prevVal := decimal.Zero
	if prevRaw, ok := node.PreviousFields["Balance"]; ok {
		prevBal, err := decodeTrustLineAmount(prevRaw)
		if err == nil {
			if v, err := decimal.NewFromString(prevBal.Value); err == nil {
				prevVal = v
			}
		}
	} else {
		prevVal = finalVal
	}

	deltaLow := finalVal.Sub(prevVal)
	addChange(low.Issuer, finalBal.Currency, high.Issuer, deltaLow)
	addChange(high.Issuer, finalBal.Currency, low.Issuer, deltaLow.Neg())
}

func offerNodeFromWire(node xrplwire.AffectedNode, logger *zap.Logger) (domain.OfferNode, bool) {
	acct, ok := node.Account()
	if !ok {
		return domain.OfferNode{}, false
	}
	seq, _ := node.Sequence()

	on := domain.OfferNode{
		Account:       string(acct),
		Sequence:      seq,
		PreviousTxnID: node.PreviousTxnID,
	}
	switch node.Kind {
	case xrplwire.NodeCreated:
		on.Kind = domain.OfferNodeCreated
	case xrplwire.NodeModified:
		on.Kind = domain.OfferNodeModified
	case xrplwire.NodeDeleted:
		on.Kind = domain.OfferNodeDeleted
	}

	if ca, ok := xrplwire.CurrencyAmountField(node.PreviousFields, "TakerGets"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.PreviousTakerGets = &a
		} else if logger != nil {
			logger.Warn("unparseable previous TakerGets", zap.Error(err))
		}
	}
	if ca, ok := xrplwire.CurrencyAmountField(node.PreviousFields, "TakerPays"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.PreviousTakerPays = &a
		} else if logger != nil {
			logger.Warn("unparseable previous TakerPays", zap.Error(err))
		}
	}

	finalFields := node.FinalFields
	if ca, ok := xrplwire.CurrencyAmountField(finalFields, "TakerGets"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.FinalTakerGets = &a
		}
	} else if ca, ok := xrplwire.CurrencyAmountField(node.NewFields, "TakerGets"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.FinalTakerGets = &a
		}
	}
	if ca, ok := xrplwire.CurrencyAmountField(finalFields, "TakerPays"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.FinalTakerPays = &a
		}
	} else if ca, ok := xrplwire.CurrencyAmountField(node.NewFields, "TakerPays"); ok {
		if a, err := amount.FromCurrencyAmount(ca); err == nil {
			on.FinalTakerPays = &a
		}
	}

	return on, true
}
