package tape

import (
	"time"

	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
)

// Tape is a bounded, newest-first trade history plus the smoothed reference
// price. It is not safe for concurrent use; all access is serialized by the
// simulation loop.
type Tape struct {
	trades         []tapev1.Trade
	capacity       int
	referencePrice float64
}

// smoothing factor for the reference price EMA
const referenceSmoothing = 0.05

// NewTape creates an empty tape with the given capacity and initial
// reference price.
func NewTape(capacity int, initialReferencePrice float64) *Tape {
	return &Tape{
		trades:         make([]tapev1.Trade, 0, capacity),
		capacity:       capacity,
		referencePrice: initialReferencePrice,
	}
}

// AddTrade prepends a trade executed now, evicting the oldest entry when the
// tape is at capacity, and drags the reference price towards the trade
// price. The reference price has no bearing on matching, only on synthetic
// order generation.
func (t *Tape) AddTrade(price float64, quantity int64) tapev1.Trade {
	trade := tapev1.Trade{
		Time:     time.Now().UnixMilli(),
		Price:    price,
		Quantity: quantity,
	}

	t.trades = append([]tapev1.Trade{trade}, t.trades...)
	if len(t.trades) > t.capacity {
		t.trades = t.trades[:t.capacity]
	}

	t.referencePrice = t.referencePrice*(1-referenceSmoothing) + price*referenceSmoothing

	return trade
}

// RecentTrades returns a copy of the recorded trades, newest first.
func (t *Tape) RecentTrades() []tapev1.Trade {
	out := make([]tapev1.Trade, len(t.trades))
	copy(out, t.trades)
	return out
}

// ReferencePrice returns the current smoothed reference price.
func (t *Tape) ReferencePrice() float64 {
	return t.referencePrice
}
