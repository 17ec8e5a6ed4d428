package orderbookv1

import "math"

// Side represents which side of the book an order is on.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Opposite returns the opposing side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order represents a single incoming order. Orders are ephemeral: they are
// consumed entirely into trades and/or a resting level and never persist.
type Order struct {
	ID       int64   `json:"id"`
	Side     Side    `json:"side"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// IsBid checks if the order is a bid (buy) order.
func (o Order) IsBid() bool {
	return o.Side == SideBuy
}

// NormalizePrice rounds a price to two decimal digits. All book keys go
// through this so floating-point drift never creates near-duplicate levels
// for the same economic price.
func NormalizePrice(price float64) float64 {
	return math.Round(price*100) / 100
}
