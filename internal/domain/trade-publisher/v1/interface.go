package tradepublisherv1

import (
	"context"

	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
)

// Publisher publishes executed trades to an external stream.
type Publisher interface {
	PublishTrades(ctx context.Context, trades []tapev1.Trade) error
	Close() error
}
