package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/storage"
	"github.com/xrplwallet/indexer/internal/storage/storagemock"
)

func nativeAmt(v float64) amount.Amount {
	return amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(v)}
}

func issuedAmt(cur, iss string, v float64) amount.Amount {
	return amount.Amount{Currency: cur, Issuer: iss, Value: decimal.NewFromFloat(v)}
}

// Scenario 1: open offer.
func TestApplyOfferOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	gets := nativeAmt(1000)
	pays := issuedAmt("USD", "rX", 500)
	tx := domain.Transaction{
		Hash:        "H",
		Account:     "A",
		Sequence:    100,
		LedgerIndex: 10,
		Nature:      domain.NatureOfferOpen,
		TakerGets:   &gets,
		TakerPays:   &pays,
		FeeNative:   nativeAmt(0.00001),
	}

	store.EXPECT().PutOpenOffer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, offer domain.Offer) error {
			assert.Equal(t, domain.OfferOpen, offer.Status)
			assert.EqualValues(t, 100, offer.Sequence)
			assert.True(t, offer.TakerGets.Equal(gets))
			return nil
		})

	m := New(store, zap.NewNop())
	require.NoError(t, m.Apply(context.Background(), tx, "user-1"))
}

// Scenario 4: explicit cancel of a partially filled offer.
func TestApplyOfferCancelFromPartiallyFilled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	existing := domain.Offer{
		Hash:      "ORIGHASH",
		Account:   "A",
		Sequence:  100,
		Status:    domain.OfferPartiallyFilled,
		TakerGets: nativeAmt(1000),
		TakerPays: issuedAmt("USD", "rX", 500),
	}

	tx := domain.Transaction{
		Hash:          "CANCELHASH",
		Account:       "A",
		OfferSequence: 100,
		LedgerIndex:   20,
		Timestamp:     time.Now(),
		Nature:        domain.NatureOfferCancel,
		FeeNative:     nativeAmt(0.00001),
	}

	store.EXPECT().GetOpenOfferBySequence(gomock.Any(), "A", uint32(100)).Return(existing, nil)
	store.EXPECT().PutFilledOffer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, offer domain.Offer) error {
			assert.Equal(t, domain.OfferFilled, offer.Status)
			assert.Equal(t, domain.ResolutionDirect, offer.ResolutionMethod)
			require.NotNil(t, offer.CancelTxHash)
			assert.Equal(t, "CANCELHASH", *offer.CancelTxHash)
			return nil
		})
	store.EXPECT().DeleteOpenOffer(gomock.Any(), "ORIGHASH").Return(nil)

	m := New(store, zap.NewNop())
	require.NoError(t, m.Apply(context.Background(), tx, "user-1"))
}

func TestApplyOfferCancelUnknownOfferDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	tx := domain.Transaction{Account: "A", OfferSequence: 999, Nature: domain.NatureOfferCancel}
	store.EXPECT().GetOpenOfferBySequence(gomock.Any(), "A", uint32(999)).Return(domain.Offer{}, storage.ErrNotFound)

	m := New(store, zap.NewNop())
	require.NoError(t, m.Apply(context.Background(), tx, "user-1"))
}

// Scenario 6: deposit vs internal transfer.
func TestApplyMovementDeposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := storagemock.NewMockStore(ctrl)

	tx := domain.Transaction{
		Hash:        "DEPHASH",
		Account:     "external",
		Destination: "W1",
		LedgerIndex: 5,
		Nature:      domain.NatureDeposit,
		FeeNative:   nativeAmt(0.00001), // paid by the external submitter, not us
		BalanceChanges: []domain.BalanceChange{
			{Account: "W1", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: 1, Value: nativeAmt(5)},
			}},
		},
	}

	store.EXPECT().PutDepositWithdrawal(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec domain.DepositWithdrawal) error {
			assert.Equal(t, domain.NatureDeposit, rec.Type)
			assert.True(t, rec.Amount.Equal(nativeAmt(5)))
			assert.True(t, rec.FeeNative.IsZero(), "deposit fee is paid by the sender, not us")
			return nil
		})

	m := New(store, zap.NewNop())
	require.NoError(t, m.Apply(context.Background(), tx, "user-1"))
}
