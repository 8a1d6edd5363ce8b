package amount

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWire(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Amount
		wantErr bool
	}{
		{
			name: "native drops",
			raw:  `"1000000000"`,
			want: Native(decimal.NewFromInt(1000)),
		},
		{
			name: "issued token",
			raw:  `{"currency":"USD","issuer":"rGateway","value":"500"}`,
			want: Issued("USD", "rGateway", decimal.NewFromInt(500)),
		},
		{
			name:    "invalid drops",
			raw:     `"not-a-number"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromWire(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %+v got %+v", tt.want, got)
		})
	}
}

func TestDiffMixedCurrency(t *testing.T) {
	a := Native(decimal.NewFromInt(10))
	b := Issued("USD", "rGateway", decimal.NewFromInt(10))

	_, err := Diff(a, b)
	require.ErrorIs(t, err, ErrMixedCurrency)
}

func TestDiff(t *testing.T) {
	prev := Native(decimal.NewFromInt(1000))
	cur := Native(decimal.NewFromInt(600))

	got, err := Diff(prev, cur)
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(400)))
}

func TestWithinTolerance(t *testing.T) {
	delta := decimal.NewFromFloat(-1000.00001)
	fee := decimal.NewFromFloat(0.00001)

	assert.True(t, WithinTolerance(delta.Add(fee), decimal.Zero, NativeTolerance))
}

func TestFromDropsNegative(t *testing.T) {
	v, err := FromDrops("-1000000")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(-1)))
}
