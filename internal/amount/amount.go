// Package amount implements the Amount model (spec §4.1): normalization of
// native-unit and issued-token values into arbitrary-precision decimals, and
// the arithmetic the rest of the pipeline needs on top of them.
package amount

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	xrpltypes "github.com/Peersyst/xrpl-go/xrpl/transaction/types"
)

// NativeCurrency is the sentinel currency code signalling the ledger's
// native asset (spec §3: "currency = NATIVE signals the native asset").
const NativeCurrency = "NATIVE"

// dropsPerUnit is the number of drops in one whole native unit.
var dropsPerUnit = decimal.New(1, 6)

// ErrMixedCurrency is returned by Diff when the two amounts are not the
// same currency/issuer pair.
var ErrMixedCurrency = errors.New("amount: mixed currency in diff")

// Amount is a normalized, sign-free monetary quantity. Sign is carried by
// the enclosing context (a delta vs. an absolute value), per spec §3.
type Amount struct {
	Currency string
	Issuer   string // empty for native
	Value    decimal.Decimal
}

// Native builds a native-asset Amount from a non-negative decimal value.
func Native(value decimal.Decimal) Amount {
	return Amount{Currency: NativeCurrency, Value: value.Abs()}
}

// Issued builds an issued-token Amount.
func Issued(currency, issuer string, value decimal.Decimal) Amount {
	return Amount{Currency: currency, Issuer: issuer, Value: value.Abs()}
}

// Zero returns the zero amount for the given currency/issuer.
func Zero(currency, issuer string) Amount {
	return Amount{Currency: currency, Issuer: issuer, Value: decimal.Zero}
}

// IsNative reports whether this amount denominates the ledger's native asset.
func (a Amount) IsNative() bool {
	return a.Currency == NativeCurrency
}

// FromDrops converts a signed native-unit integer string (as carried on the
// wire, e.g. tx_json.Fee or a TakerGets string amount) into a signed decimal
// of whole units. The sign of the input is preserved in the result.
func FromDrops(drops string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount: invalid drops value %q: %w", drops, err)
	}
	return d.DivRound(dropsPerUnit, 6), nil
}

// FromWire normalizes a wire CurrencyAmount (spec §4.1 from_wire). A bare
// JSON string means native-unit drops; an object means an issued-token
// amount already in whole-unit decimal form.
func FromWire(raw json.RawMessage) (Amount, error) {
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var dropsStr string
		if err := json.Unmarshal(raw, &dropsStr); err != nil {
			return Amount{}, fmt.Errorf("amount: decoding native wire amount: %w", err)
		}
		whole, err := FromDrops(dropsStr)
		if err != nil {
			return Amount{}, err
		}
		return Native(whole), nil
	}

	var obj struct {
		Currency string `json:"currency"`
		Issuer   string `json:"issuer"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Amount{}, fmt.Errorf("amount: decoding issued wire amount: %w", err)
	}
	value, err := decimal.NewFromString(obj.Value)
	if err != nil {
		return Amount{}, fmt.Errorf("amount: invalid issued value %q: %w", obj.Value, err)
	}
	return Issued(obj.Currency, obj.Issuer, value), nil
}

// FromCurrencyAmount adapts an already-typed Peersyst/xrpl-go CurrencyAmount
// (as decoded off an AffectedNode's FinalFields/PreviousFields) into Amount.
func FromCurrencyAmount(ca xrpltypes.CurrencyAmount) (Amount, error) {
	flat := ca.Flatten()
	raw, err := json.Marshal(flat)
	if err != nil {
		return Amount{}, fmt.Errorf("amount: re-encoding currency amount: %w", err)
	}
	return FromWire(raw)
}

// SameCurrency reports whether two amounts share the same currency/issuer.
func SameCurrency(a, b Amount) bool {
	return a.Currency == b.Currency && a.Issuer == b.Issuer
}

// Diff returns the absolute value of current - previous, per spec §4.1.
// It fails with ErrMixedCurrency when the two amounts are not the same unit.
func Diff(previous, current Amount) (Amount, error) {
	if !SameCurrency(previous, current) {
		return Amount{}, fmt.Errorf("%w: %s/%s vs %s/%s", ErrMixedCurrency,
			previous.Currency, previous.Issuer, current.Currency, current.Issuer)
	}
	delta := current.Value.Sub(previous.Value).Abs()
	return Amount{Currency: current.Currency, Issuer: current.Issuer, Value: delta}, nil
}

// Add returns a + b for two amounts of the same currency/issuer.
func Add(a, b Amount) (Amount, error) {
	if !SameCurrency(a, b) {
		return Amount{}, fmt.Errorf("%w: %s/%s vs %s/%s", ErrMixedCurrency, a.Currency, a.Issuer, b.Currency, b.Issuer)
	}
	return Amount{Currency: a.Currency, Issuer: a.Issuer, Value: a.Value.Add(b.Value)}, nil
}

// Equal compares two amounts after normalizing Value to canonical decimal
// form, per spec §4.1.
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Issuer == b.Issuer && a.Value.Equal(b.Value)
}

// String renders the amount's value in canonical decimal form for display:
// rounded half-to-even to at most 15 decimal places, no trailing zeros, no
// exponent (spec §4.1).
func (a Amount) String() string {
	v := a.Value.RoundBank(15)
	return v.String()
}

// IsZero reports whether the amount's value is zero.
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

// WithinTolerance reports whether a and b are equal within the given
// absolute tolerance, used for the fee-only-balance-change heuristic
// (spec §4.2: "tolerance 10^-6 whole units") and for P3/P4.
func WithinTolerance(a, b decimal.Decimal, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// NativeTolerance is the default tolerance used when comparing native-asset
// deltas against a fee, per spec §4.2.
var NativeTolerance = decimal.New(1, -6)
