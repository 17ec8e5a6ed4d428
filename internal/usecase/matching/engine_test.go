package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/market-sim/internal/usecase/orderbook"
	"github.com/muhammadchandra19/market-sim/internal/usecase/tape"
	"github.com/muhammadchandra19/market-sim/pkg/errors"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

func newTestEngine(t *testing.T) (*Engine, *orderbook.Book, *tape.Tape) {
	t.Helper()

	log, err := logger.NewLogger()
	require.NoError(t, err)

	book := orderbook.NewBook()
	tradeTape := tape.NewTape(50, 100.0)
	return NewEngine(book, tradeTape, log), book, tradeTape
}

// Test 1: Full match at an exactly equal price; equality crosses
func TestEngine_FullMatch(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideSell, 101.00, 50)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 101.00, Quantity: 30,
	})

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 101.00, trades[0].Price)
	assert.Equal(t, int64(30), trades[0].Quantity)

	assert.Equal(t, int64(20), book.LevelQuantity(orderbookv1.SideSell, 101.00))
	assert.Empty(t, book.SortedBids())
}

// Test 2: Partial fill across two levels, consumed best price first
func TestEngine_PartialAcrossLevels(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideSell, 100.00, 10)
	book.AddToLevel(orderbookv1.SideSell, 100.50, 20)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 100.50, Quantity: 25,
	})

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, 100.00, trades[0].Price)
	assert.Equal(t, int64(10), trades[0].Quantity)
	assert.Equal(t, 100.50, trades[1].Price)
	assert.Equal(t, int64(15), trades[1].Quantity)

	assert.Equal(t, int64(0), book.LevelQuantity(orderbookv1.SideSell, 100.00))
	assert.Equal(t, int64(5), book.LevelQuantity(orderbookv1.SideSell, 100.50))
	assert.Empty(t, book.SortedBids())
}

// Test 3: A non-crossing order rests in full, no trade generated
func TestEngine_NoCrossRestsInFull(t *testing.T) {
	engine, book, tradeTape := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideBuy, 99.00, 10)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideSell, Price: 99.50, Quantity: 5,
	})

	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Empty(t, tradeTape.RecentTrades())

	assert.Equal(t, int64(5), book.LevelQuantity(orderbookv1.SideSell, 99.50))
	assert.Equal(t, int64(10), book.LevelQuantity(orderbookv1.SideBuy, 99.00))
}

// Test 4: A sell consumes bids in descending price order at resting prices
func TestEngine_SellConsumesBidsDescending(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideBuy, 99.00, 10)
	book.AddToLevel(orderbookv1.SideBuy, 99.50, 10)
	book.AddToLevel(orderbookv1.SideBuy, 98.00, 10)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideSell, Price: 99.00, Quantity: 15,
	})

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, 99.50, trades[0].Price)
	assert.Equal(t, int64(10), trades[0].Quantity)
	assert.Equal(t, 99.00, trades[1].Price)
	assert.Equal(t, int64(5), trades[1].Quantity)

	// 98.00 does not cross a 99.00 sell
	assert.Equal(t, int64(10), book.LevelQuantity(orderbookv1.SideBuy, 98.00))
}

// Test 5: Fills plus rested quantity always add up to the order quantity
func TestEngine_QuantityConservation(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideSell, 100.00, 7)
	book.AddToLevel(orderbookv1.SideSell, 100.25, 4)

	order := orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 100.25, Quantity: 20,
	}
	trades, err := engine.ProcessOrder(order)
	require.NoError(t, err)

	var filled int64
	for _, trade := range trades {
		filled += trade.Quantity
	}
	rested := book.LevelQuantity(orderbookv1.SideBuy, 100.25)

	assert.Equal(t, order.Quantity, filled+rested)
}

// Test 6: Remainder merges into an existing level on the order's own side
func TestEngine_RemainderMergesIntoOwnSide(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideBuy, 100.00, 10)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 100.00, Quantity: 5,
	})

	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, int64(15), book.LevelQuantity(orderbookv1.SideBuy, 100.00))
	assert.Len(t, book.SortedBids(), 1)
}

// Test 7: Invalid orders are rejected before any mutation
func TestEngine_RejectsInvalidOrders(t *testing.T) {
	engine, book, tradeTape := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideSell, 100.00, 10)

	_, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 100.00, Quantity: 0,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.New(errors.ErrInvalidOrderQuantity, ""))

	_, err = engine.ProcessOrder(orderbookv1.Order{
		ID: 2, Side: orderbookv1.SideBuy, Price: -1, Quantity: 10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.New(errors.ErrInvalidOrderPrice, ""))

	// no trade, no level mutation
	assert.Empty(t, tradeTape.RecentTrades())
	assert.Equal(t, int64(10), book.LevelQuantity(orderbookv1.SideSell, 100.00))
	assert.Empty(t, book.SortedBids())
}

// Test 8: An aggressive order sweeping the whole opposing side rests the
// remainder and leaves no crossed levels behind
func TestEngine_SweepLeavesNoCrossedLevels(t *testing.T) {
	engine, book, _ := newTestEngine(t)
	book.AddToLevel(orderbookv1.SideSell, 100.00, 5)
	book.AddToLevel(orderbookv1.SideSell, 100.50, 5)

	trades, err := engine.ProcessOrder(orderbookv1.Order{
		ID: 1, Side: orderbookv1.SideBuy, Price: 101.00, Quantity: 25,
	})

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Empty(t, book.SortedAsks())
	assert.Equal(t, int64(15), book.LevelQuantity(orderbookv1.SideBuy, 101.00))
}
