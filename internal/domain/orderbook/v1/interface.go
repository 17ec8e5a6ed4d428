package orderbookv1

// PriceLevel is the aggregate resting quantity at one price on one side of
// the book.
type PriceLevel struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// Book is a two-sided price-level order book. It tracks aggregate quantity
// per price, not individual resting orders. Implementations carry no
// internal locking; callers serialize access.
type Book interface {
	// BestOpposing returns the best ask for a buy and the best bid for a
	// sell. ok is false when the opposing side is empty.
	BestOpposing(side Side) (price float64, ok bool)

	// LevelQuantity returns the aggregate quantity resting at price on the
	// given side, 0 when absent.
	LevelQuantity(side Side, price float64) int64

	// AddToLevel creates or increments a level by quantity. The price is
	// normalized before use as a key.
	AddToLevel(side Side, price float64, quantity int64)

	// ReduceLevel subtracts quantity from a level and removes the level
	// entirely when it drops to zero or below. Callers guarantee quantity
	// does not exceed the current level quantity.
	ReduceLevel(side Side, price float64, quantity int64)

	// SortedBids returns bid levels in descending price order.
	SortedBids() []PriceLevel

	// SortedAsks returns ask levels in ascending price order.
	SortedAsks() []PriceLevel
}
