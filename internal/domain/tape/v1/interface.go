package tapev1

// Tape is a bounded, newest-first trade history that also owns the smoothed
// reference price used to center synthetic order generation. Implementations
// carry no internal locking; callers serialize access.
type Tape interface {
	// AddTrade records a trade executed now and returns it. The oldest
	// entry is evicted when the tape is at capacity. Every trade drags the
	// reference price towards its price.
	AddTrade(price float64, quantity int64) Trade

	// RecentTrades returns the recorded trades, newest first.
	RecentTrades() []Trade

	// ReferencePrice returns the current smoothed reference price.
	ReferencePrice() float64
}
