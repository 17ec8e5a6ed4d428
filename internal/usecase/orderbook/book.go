package orderbook

import (
	"sort"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
)

// Book is a two-sided price-level order book keeping aggregate quantity per
// price. It is not safe for concurrent use; all access is serialized by the
// simulation loop.
type Book struct {
	bids map[float64]int64 // price -> aggregate quantity
	asks map[float64]int64
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		bids: make(map[float64]int64),
		asks: make(map[float64]int64),
	}
}

// BestOpposing returns the best ask for a buy order and the best bid for a
// sell order. ok is false when the opposing side is empty.
func (b *Book) BestOpposing(side orderbookv1.Side) (float64, bool) {
	if side == orderbookv1.SideBuy {
		return minPrice(b.asks)
	}
	return maxPrice(b.bids)
}

// LevelQuantity returns the aggregate quantity at price on the given side,
// 0 when absent.
func (b *Book) LevelQuantity(side orderbookv1.Side, price float64) int64 {
	return b.levels(side)[orderbookv1.NormalizePrice(price)]
}

// AddToLevel creates or increments a level by quantity.
func (b *Book) AddToLevel(side orderbookv1.Side, price float64, quantity int64) {
	b.levels(side)[orderbookv1.NormalizePrice(price)] += quantity
}

// ReduceLevel subtracts quantity from a level, removing the level entirely
// when nothing remains. Levels never rest with quantity <= 0.
func (b *Book) ReduceLevel(side orderbookv1.Side, price float64, quantity int64) {
	levels := b.levels(side)
	key := orderbookv1.NormalizePrice(price)

	levels[key] -= quantity
	if levels[key] <= 0 {
		delete(levels, key)
	}
}

// SortedBids returns bid levels in descending price order, best bid first.
func (b *Book) SortedBids() []orderbookv1.PriceLevel {
	levels := collect(b.bids)
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price > levels[j].Price
	})
	return levels
}

// SortedAsks returns ask levels in ascending price order, best ask first.
func (b *Book) SortedAsks() []orderbookv1.PriceLevel {
	levels := collect(b.asks)
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price < levels[j].Price
	})
	return levels
}

func (b *Book) levels(side orderbookv1.Side) map[float64]int64 {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

func collect(levels map[float64]int64) []orderbookv1.PriceLevel {
	out := make([]orderbookv1.PriceLevel, 0, len(levels))
	for price, quantity := range levels {
		out = append(out, orderbookv1.PriceLevel{Price: price, Quantity: quantity})
	}
	return out
}

func minPrice(levels map[float64]int64) (float64, bool) {
	var best float64
	found := false
	for price := range levels {
		if !found || price < best {
			best = price
			found = true
		}
	}
	return best, found
}

func maxPrice(levels map[float64]int64) (float64, bool) {
	var best float64
	found := false
	for price := range levels {
		if !found || price > best {
			best = price
			found = true
		}
	}
	return best, found
}
