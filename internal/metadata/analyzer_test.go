package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/xrplwire"
)

func decodeTx(t *testing.T, raw string) xrplwire.Transaction {
	t.Helper()
	var tx xrplwire.Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	return tx
}

func TestAnalyzeFeeOnlyPayment(t *testing.T) {
	raw := `{
		"hash": "ABC123",
		"ledger_index": 100,
		"tx_json": {
			"Account": "rSender",
			"Fee": "12",
			"TransactionType": "Payment",
			"Sequence": 1
		},
		"meta": {
			"TransactionResult": "tesSUCCESS",
			"AffectedNodes": [
				{"ModifiedNode": {
					"LedgerEntryType": "AccountRoot",
					"FinalFields": {"Account": "rSender", "Balance": "99999988"},
					"PreviousFields": {"Balance": "100000000"}
				}}
			]
		}
	}`
	tx := decodeTx(t, raw)
	result := Analyze(tx, nil)

	require.True(t, result.Valid)
	require.Len(t, result.BalanceChanges, 1)
	assert.Equal(t, "rSender", result.BalanceChanges[0].Account)
	assert.True(t, amount.WithinTolerance(
		result.BalanceChanges[0].Balances[0].Magnitude().Value,
		result.FeeNative.Value,
		amount.NativeTolerance,
	))
}

func TestAnalyzeInvalidMetaPlaceholder(t *testing.T) {
	raw := `{
		"hash": "ABC123",
		"ledger_index": 100,
		"tx_json": {"Account": "rSender", "Fee": "12", "TransactionType": "Payment", "Sequence": 1},
		"meta": "unexpanded"
	}`
	tx := decodeTx(t, raw)
	result := Analyze(tx, nil)
	assert.False(t, result.Valid)
	assert.Empty(t, result.BalanceChanges)
}

func TestAnalyzeRippleStateTrade(t *testing.T) {
	raw := `{
		"hash": "DEF456",
		"ledger_index": 101,
		"tx_json": {"Account": "rTaker", "Fee": "10", "TransactionType": "OfferCreate", "Sequence": 5},
		"meta": {
			"TransactionResult": "tesSUCCESS",
			"AffectedNodes": [
				{"ModifiedNode": {
					"LedgerEntryType": "RippleState",
					"FinalFields": {
						"Balance": {"currency": "USD", "issuer": "rrrrrrrrrrrrrrrrrrrrBZbvji", "value": "-40"},
						"LowLimit": {"currency": "USD", "issuer": "rLow", "value": "0"},
						"HighLimit": {"currency": "USD", "issuer": "rHigh", "value": "0"}
					},
					"PreviousFields": {
						"Balance": {"currency": "USD", "issuer": "rrrrrrrrrrrrrrrrrrrrBZbvji", "value": "-50"}
					}
				}}
			]
		}
	}`
	tx := decodeTx(t, raw)
	result := Analyze(tx, nil)
	require.True(t, result.Valid)
	require.Len(t, result.BalanceChanges, 2)

	byAccount := map[string]int{}
	for _, bc := range result.BalanceChanges {
		byAccount[bc.Account] = bc.Balances[0].Sign
	}
	assert.Equal(t, -1, byAccount["rHigh"])
	assert.Equal(t, 1, byAccount["rLow"])
}

func TestAnalyzeOfferNodeDeleted(t *testing.T) {
	raw := `{
		"hash": "GHI789",
		"ledger_index": 102,
		"tx_json": {"Account": "rTaker", "Fee": "10", "TransactionType": "OfferCreate", "Sequence": 5},
		"meta": {
			"TransactionResult": "tesSUCCESS",
			"AffectedNodes": [
				{"DeletedNode": {
					"LedgerEntryType": "Offer",
					"FinalFields": {
						"Account": "rMaker",
						"Sequence": 7,
						"TakerGets": "1000000",
						"TakerPays": {"currency": "USD", "issuer": "rGateway", "value": "1"}
					},
					"PreviousTxnID": "PREVHASH"
				}}
			]
		}
	}`
	tx := decodeTx(t, raw)
	result := Analyze(tx, nil)
	require.True(t, result.Valid)
	require.Len(t, result.OfferNodes, 1)

	on := result.OfferNodes[0]
	assert.Equal(t, "rMaker", on.Account)
	assert.EqualValues(t, 7, on.Sequence)
	require.NotNil(t, on.FinalTakerGets)
	assert.True(t, on.FinalTakerGets.IsNative())
}
