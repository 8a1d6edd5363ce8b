package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/domain"
)

func nativeAmt(v float64) amount.Amount {
	return amount.Amount{Currency: amount.NativeCurrency, Value: decimal.NewFromFloat(v)}
}

func issuedAmt(cur, iss string, v float64) amount.Amount {
	return amount.Amount{Currency: cur, Issuer: iss, Value: decimal.NewFromFloat(v)}
}

func TestExtractFromBalanceChanges(t *testing.T) {
	seq := uint32(100)
	tx := domain.Transaction{
		Hash:    "H",
		Account: "A",
		BalanceChanges: []domain.BalanceChange{
			{Account: "Maker", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: -1, Value: nativeAmt(1000)},
				{Currency: "USD", Issuer: "rX", Sign: 1, Value: issuedAmt("USD", "rX", 500)},
			}},
		},
		OfferNodes: []domain.OfferNode{
			{Account: "Maker", Sequence: seq, Kind: domain.OfferNodeDeleted},
		},
	}

	trades := Extract(tx)
	require.Len(t, trades, 1)
	assert.Equal(t, "Maker", trades[0].MakerAddress)
	assert.True(t, trades[0].SoldAmount.Equal(nativeAmt(1000)))
	assert.True(t, trades[0].BoughtAmount.Equal(issuedAmt("USD", "rX", 500)))
	require.NotNil(t, trades[0].RelatedOfferSequence)
	assert.EqualValues(t, 100, *trades[0].RelatedOfferSequence)
}

func TestExtractFallbackFromOfferNodes(t *testing.T) {
	prevGets := nativeAmt(1000)
	finalGets := nativeAmt(600)
	prevPays := issuedAmt("USD", "rX", 500)
	finalPays := issuedAmt("USD", "rX", 300)

	tx := domain.Transaction{
		Hash:    "H2",
		Account: "B",
		OfferNodes: []domain.OfferNode{
			{
				Account:           "A",
				Sequence:          100,
				Kind:              domain.OfferNodeModified,
				PreviousTakerGets: &prevGets,
				FinalTakerGets:    &finalGets,
				PreviousTakerPays: &prevPays,
				FinalTakerPays:    &finalPays,
			},
		},
	}

	trades := Extract(tx)
	require.Len(t, trades, 1)
	assert.Equal(t, "A", trades[0].MakerAddress)
	assert.True(t, trades[0].SoldAmount.Equal(nativeAmt(400)))
	assert.True(t, trades[0].BoughtAmount.Equal(issuedAmt("USD", "rX", 200)))
}

func TestExtractDeterministicOrdering(t *testing.T) {
	seqA := uint32(5)
	seqB := uint32(1)
	tx := domain.Transaction{
		Hash:    "H3",
		Account: "Taker",
		BalanceChanges: []domain.BalanceChange{
			{Account: "Zeta", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: -1, Value: nativeAmt(10)},
				{Currency: "USD", Issuer: "rX", Sign: 1, Value: issuedAmt("USD", "rX", 5)},
			}},
			{Account: "Alpha", Balances: []domain.SignedAmount{
				{Currency: amount.NativeCurrency, Sign: -1, Value: nativeAmt(20)},
				{Currency: "USD", Issuer: "rX", Sign: 1, Value: issuedAmt("USD", "rX", 10)},
			}},
		},
		OfferNodes: []domain.OfferNode{
			{Account: "Zeta", Sequence: seqA},
			{Account: "Alpha", Sequence: seqB},
		},
	}

	trades := Extract(tx)
	require.Len(t, trades, 2)
	assert.Equal(t, "Alpha", trades[0].MakerAddress)
	assert.Equal(t, "Zeta", trades[1].MakerAddress)
}
