package walletpoller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/lifecycle"
	"github.com/xrplwallet/indexer/internal/rpcclient"
	"github.com/xrplwallet/indexer/internal/storage/storagemock"
)

func TestPollWalletAdvancesLedgerAndPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"result": map[string]interface{}{
				"transactions": []map[string]interface{}{
					{
						"hash":         "HASH1",
						"ledger_index": 42,
						"tx_json": map[string]interface{}{
							"Account": "external", "Destination": "W1",
							"Fee": "10", "TransactionType": "Payment", "Sequence": 1, "date": 1,
						},
						"meta": map[string]interface{}{
							"TransactionResult": "tesSUCCESS",
							"AffectedNodes": []interface{}{
								map[string]interface{}{
									"ModifiedNode": map[string]interface{}{
										"LedgerEntryType": "AccountRoot",
										"FinalFields":     map[string]interface{}{"Account": "W1", "Balance": "5000000"},
										"PreviousFields":  map[string]interface{}{"Balance": "0"},
									},
								},
							},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	store.EXPECT().GetLatestLedgerIndex(gomock.Any(), "user-1", "W1").Return(int64(0), false, nil)
	store.EXPECT().PutTransaction(gomock.Any(), gomock.Any(), "user-1").Return(nil)
	store.EXPECT().PutDepositWithdrawal(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec domain.DepositWithdrawal) error {
			assert.Equal(t, domain.NatureDeposit, rec.Type)
			return nil
		})

	rpc := rpcclient.New(server.URL, zap.NewNop())
	machine := lifecycle.New(store, zap.NewNop())
	poller := New(rpc, store, machine, zap.NewNop(), 0, nil)

	user := domain.UserConfig{ID: "user-1", Wallets: []string{"W1"}}
	newLedger, err := poller.PollWallet(context.Background(), user, "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, newLedger)
}
