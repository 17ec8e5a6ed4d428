package matching

import (
	"github.com/muhammadchandra19/market-sim/pkg/errors"
	"github.com/muhammadchandra19/market-sim/pkg/logger"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
)

// Engine is a continuous double-auction matching engine working at
// price-level granularity. It is the only writer of the book and the tape.
type Engine struct {
	book   orderbookv1.Book
	tape   tapev1.Tape
	logger *logger.Logger
}

// NewEngine creates a matching engine over the given book and tape.
func NewEngine(book orderbookv1.Book, tape tapev1.Tape, logger *logger.Logger) *Engine {
	return &Engine{
		book:   book,
		tape:   tape,
		logger: logger,
	}
}

// ProcessOrder matches the order against the opposing side of the book,
// best price first, and rests any remaining quantity at the order's own
// price. Trades execute at the resting level's price, so price improvement
// goes to the aggressor. The fills plus the rested quantity always sum to
// the order quantity.
//
// Invalid orders are rejected before any mutation.
func (e *Engine) ProcessOrder(order orderbookv1.Order) ([]tapev1.Trade, error) {
	if order.Quantity <= 0 {
		return nil, errors.New(errors.ErrInvalidOrderQuantity, "order quantity must be positive")
	}
	if order.Price <= 0 {
		return nil, errors.New(errors.ErrInvalidOrderPrice, "order price must be positive")
	}

	price := orderbookv1.NormalizePrice(order.Price)
	remaining := order.Quantity

	var trades []tapev1.Trade
	for remaining > 0 {
		best, ok := e.book.BestOpposing(order.Side)
		if !ok || !crosses(order.Side, price, best) {
			break
		}

		available := e.book.LevelQuantity(order.Side.Opposite(), best)
		fill := min(remaining, available)

		trades = append(trades, e.tape.AddTrade(best, fill))
		e.book.ReduceLevel(order.Side.Opposite(), best, fill)
		remaining -= fill

		e.logger.Debug("order matched",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "price", Value: best},
			logger.Field{Key: "quantity", Value: fill},
		)
	}

	if remaining > 0 {
		e.book.AddToLevel(order.Side, price, remaining)
		e.logger.Debug("order rested",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "side", Value: order.Side},
			logger.Field{Key: "price", Value: price},
			logger.Field{Key: "quantity", Value: remaining},
		)
	}

	return trades, nil
}

// crosses reports whether an order at price overlaps the best opposing
// price. Equality crosses.
func crosses(side orderbookv1.Side, price, best float64) bool {
	if side == orderbookv1.SideBuy {
		return price >= best
	}
	return price <= best
}
