package snapshotv1

import (
	"github.com/shopspring/decimal"

	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
)

// Snapshot is a complete, self-consistent read of book, tape and running
// flag at one instant. It is the wire format pushed to every observer and
// served by the REST accessor.
type Snapshot struct {
	// Bids and Asks are keyed by fixed two-decimal price strings, e.g.
	// "100.50", so equal economic prices collapse to one key.
	Bids map[string]int64 `json:"bids"`
	Asks map[string]int64 `json:"asks"`

	// Trades is newest first, at most the tape capacity.
	Trades []tapev1.Trade `json:"trades"`

	IsSimulating bool `json:"isSimulating"`
}

// PriceKey formats a price as the fixed two-decimal string used as a
// bid/ask object key.
func PriceKey(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}
