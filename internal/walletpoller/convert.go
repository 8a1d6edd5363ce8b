package walletpoller

import (
	"encoding/json"
	"time"

	"github.com/xrplwallet/indexer/internal/amount"
	"github.com/xrplwallet/indexer/internal/xrplwire"
)

// epochTime converts a ripple-epoch-seconds timestamp into UTC (spec §6).
func epochTime(rippleSeconds int64) time.Time {
	return time.Unix(xrplwire.RippleTimeToUnix(rippleSeconds), 0).UTC()
}

func decodeCurrencyField(raw json.RawMessage) (amount.Amount, bool) {
	if len(raw) == 0 {
		return amount.Amount{}, false
	}
	a, err := amount.FromWire(raw)
	if err != nil {
		return amount.Amount{}, false
	}
	return a, true
}
