package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPairEitherDirection(t *testing.T) {
	pair, ok := FindPair(rlusd.Currency, "NATIVE")
	assert.True(t, ok)
	assert.Equal(t, "XRP/RLUSD", pair.ID)
}

func TestFindPairUnsupported(t *testing.T) {
	_, ok := FindPair("NATIVE", "UNKNOWNCURRENCY000000000000000000000000")
	assert.False(t, ok)
}

func TestDetermineMarketSide(t *testing.T) {
	pair, ok := FindPair("NATIVE", rlusd.Currency)
	assert.True(t, ok)
	assert.Equal(t, MarketSideSell, DetermineMarketSide(pair, "NATIVE", rlusd.Currency))
	assert.Equal(t, MarketSideBuy, DetermineMarketSide(pair, rlusd.Currency, "NATIVE"))
}
