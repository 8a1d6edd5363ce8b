package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/lifecycle"
	"github.com/xrplwallet/indexer/internal/reconcile"
	"github.com/xrplwallet/indexer/internal/rpcclient"
	"github.com/xrplwallet/indexer/internal/storage/storagemock"
	"github.com/xrplwallet/indexer/internal/walletpoller"
)

func TestSeedsDefaultUsersWhenStorageEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"transactions": []interface{}{}},
		})
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	defaults := []domain.UserConfig{{ID: "user-1", Wallets: []string{"W1"}}}

	store.EXPECT().GetUsers(gomock.Any()).Return(nil, nil)
	store.EXPECT().PutUsers(gomock.Any(), defaults).Return(nil)

	rpc := rpcclient.New(server.URL, zap.NewNop())
	machine := lifecycle.New(store, zap.NewNop())
	poller := walletpoller.New(rpc, store, machine, zap.NewNop(), 0, nil)
	reconciler := reconcile.New(rpc, store, zap.NewNop())

	s := New(store, poller, reconciler, zap.NewNop(), Config{
		Period:              time.Hour,
		UserRefreshInterval: time.Hour,
		DefaultUsers:        defaults,
	})

	require.NoError(t, s.loadOrSeedUsers(context.Background()))
	require.Equal(t, defaults, s.users)
}

func TestRunStopsCleanlyOnCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"transactions": []interface{}{}, "offers": []interface{}{}, "ledger_current_index": 1},
		})
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	users := []domain.UserConfig{{ID: "user-1", Wallets: []string{"W1"}}}
	store.EXPECT().GetUsers(gomock.Any()).Return(users, nil)
	store.EXPECT().GetLatestLedgerIndex(gomock.Any(), "user-1", "W1").Return(int64(0), false, nil).AnyTimes()
	store.EXPECT().ListOpenOffers(gomock.Any()).Return(nil, nil).AnyTimes()

	rpc := rpcclient.New(server.URL, zap.NewNop())
	machine := lifecycle.New(store, zap.NewNop())
	poller := walletpoller.New(rpc, store, machine, zap.NewNop(), 0, nil)
	reconciler := reconcile.New(rpc, store, zap.NewNop())

	s := New(store, poller, reconciler, zap.NewNop(), Config{
		Period:              10 * time.Millisecond,
		UserRefreshInterval: time.Hour,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
}
