package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccountTxDecodesTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"result": map[string]interface{}{
				"transactions": []map[string]interface{}{
					{
						"hash":         "ABC",
						"ledger_index": 10,
						"tx_json": map[string]interface{}{
							"Account": "rA", "Fee": "10", "TransactionType": "Payment", "Sequence": 1,
						},
						"meta": map[string]interface{}{
							"TransactionResult": "tesSUCCESS",
							"AffectedNodes":     []interface{}{},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	result, err := client.AccountTx(context.Background(), AccountTxRequest{Account: "rA", Forward: true, Limit: 400})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "ABC", result.Transactions[0].Hash)
}

func TestCallRetriesOnFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"account": "rA", "offers": []interface{}{}, "ledger_current_index": 5},
		})
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop(), WithMaxRetries(3))
	result, err := client.AccountOffers(context.Background(), "rA")
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.LedgerCurrentIndex)
	assert.GreaterOrEqual(t, attempts, 2)
}
