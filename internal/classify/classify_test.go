package classify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
)

type fakeWallets map[string]bool

func (f fakeWallets) OwnsAddress(addr string) bool { return f[addr] }

func TestClassifyPaymentInternalTransfer(t *testing.T) {
	wallets := fakeWallets{"W1": true, "W2": true}
	tx := domain.Transaction{Account: "W1", Destination: "W2"}
	assert.Equal(t, domain.NatureInternalTransfer, Classify(tx, "Payment", "tesSUCCESS", wallets))
}

func TestClassifyPaymentDeposit(t *testing.T) {
	wallets := fakeWallets{"W1": true}
	tx := domain.Transaction{Account: "external", Destination: "W1"}
	assert.Equal(t, domain.NatureDeposit, Classify(tx, "Payment", "tesSUCCESS", wallets))
}

func TestClassifyPaymentWithdrawal(t *testing.T) {
	wallets := fakeWallets{"W1": true}
	tx := domain.Transaction{Account: "W1", Destination: "external"}
	assert.Equal(t, domain.NatureWithdrawal, Classify(tx, "Payment", "tesSUCCESS", wallets))
}

func TestClassifyPaymentMarketTrade(t *testing.T) {
	wallets := fakeWallets{"W1": true}
	tx := domain.Transaction{
		Account:     "W1",
		Destination: "external",
		FeeNative:   amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(0.00001)},
		BalanceChanges: []domain.BalanceChange{
			{Account: "W1", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: -1, Value: amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(1000.00001)}},
				{Currency: "USD", Issuer: "rX", Sign: 1, Value: amount.Amount{Currency: "USD", Issuer: "rX", Value: decimal.NewFromInt(500)}},
			}},
		},
	}
	assert.Equal(t, domain.NatureMarketTrade, Classify(tx, "Payment", "tesSUCCESS", wallets))
}

func TestClassifyOfferCreateOpen(t *testing.T) {
	wallets := fakeWallets{"A": true}
	tx := domain.Transaction{
		Account:   "A",
		FeeNative: amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(0.00001)},
		OfferNodes: []domain.OfferNode{
			{Kind: domain.OfferNodeCreated, Account: "A"},
		},
	}
	assert.Equal(t, domain.NatureOfferOpen, Classify(tx, "OfferCreate", "tesSUCCESS", wallets))
}

func TestClassifyOfferCreateFilled(t *testing.T) {
	wallets := fakeWallets{"A": true}
	tx := domain.Transaction{
		Account:   "A",
		FeeNative: amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(0.00001)},
		BalanceChanges: []domain.BalanceChange{
			{Account: "A", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: -1, Value: amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(1000.00001)}},
				{Currency: "USD", Issuer: "rX", Sign: 1, Value: amount.Amount{Currency: "USD", Issuer: "rX", Value: decimal.NewFromInt(500)}},
			}},
		},
	}
	assert.Equal(t, domain.NatureOfferFilled, Classify(tx, "OfferCreate", "tesSUCCESS", wallets))
}

func TestClassifyOfferCancel(t *testing.T) {
	assert.Equal(t, domain.NatureOfferCancel, Classify(domain.Transaction{}, "OfferCancel", "tesSUCCESS", fakeWallets{}))
}

func TestClassifyNonSuccessResult(t *testing.T) {
	assert.Equal(t, domain.NatureOther, Classify(domain.Transaction{}, "Payment", "tecPATH_DRY", fakeWallets{}))
}
