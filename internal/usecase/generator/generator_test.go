package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
)

type fixedReference struct {
	price float64
}

func (f fixedReference) ReferencePrice() float64 { return f.price }

func newTestGenerator(price float64) *Generator {
	options := DefaultOptions()
	options.Seed = 42
	return NewGenerator(fixedReference{price: price}, options)
}

// Test 1: IDs increase monotonically from 1
func TestGenerator_MonotonicIDs(t *testing.T) {
	gen := newTestGenerator(100.0)

	for i := int64(1); i <= 10; i++ {
		order := gen.Generate()
		assert.Equal(t, i, order.ID)
	}
}

// Test 2: Prices stay within the volatility band around the reference price
func TestGenerator_PriceWithinBand(t *testing.T) {
	gen := newTestGenerator(100.0)

	for i := 0; i < 500; i++ {
		order := gen.Generate()
		assert.GreaterOrEqual(t, order.Price, 98.5)
		assert.LessOrEqual(t, order.Price, 101.5)
		// normalized to two decimals
		assert.Equal(t, orderbookv1.NormalizePrice(order.Price), order.Price)
	}
}

// Test 3: Quantities stay within [MinQuantity, MaxQuantity]
func TestGenerator_QuantityBounds(t *testing.T) {
	gen := newTestGenerator(100.0)

	for i := 0; i < 500; i++ {
		order := gen.Generate()
		assert.GreaterOrEqual(t, order.Quantity, int64(10))
		assert.LessOrEqual(t, order.Quantity, int64(100))
	}
}

// Test 4: Both sides occur
func TestGenerator_BothSides(t *testing.T) {
	gen := newTestGenerator(100.0)

	seen := make(map[orderbookv1.Side]int)
	for i := 0; i < 200; i++ {
		seen[gen.Generate().Side]++
	}

	assert.Greater(t, seen[orderbookv1.SideBuy], 0)
	assert.Greater(t, seen[orderbookv1.SideSell], 0)
}

// Test 5: Generation follows the reference price
func TestGenerator_TracksReference(t *testing.T) {
	gen := newTestGenerator(250.0)

	order := gen.Generate()
	assert.InDelta(t, 250.0, order.Price, 1.5)
}
