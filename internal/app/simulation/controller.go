package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/muhammadchandra19/market-sim/pkg/errors"
	"github.com/muhammadchandra19/market-sim/pkg/logger"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/market-sim/internal/domain/snapshot/v1"
	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
	tradepublisherv1 "github.com/muhammadchandra19/market-sim/internal/domain/trade-publisher/v1"
	"github.com/muhammadchandra19/market-sim/internal/infra/metrics"
)

// OrderSource synthesizes the next incoming order.
type OrderSource interface {
	Generate() orderbookv1.Order
}

// OrderProcessor consumes an incoming order, mutating book and tape.
type OrderProcessor interface {
	ProcessOrder(order orderbookv1.Order) ([]tapev1.Trade, error)
}

type commandKind int

const (
	commandText commandKind = iota
	commandSubscriber
	commandSnapshot
)

type command struct {
	kind       commandKind
	text       string
	subscriber snapshotv1.Receiver
	reply      chan snapshotv1.Snapshot
}

// Controller drives the simulation. A single goroutine owns the book, the
// tape and the running flag: the periodic tick, inbound commands, snapshot
// requests and broadcasts all execute as indivisible steps on that
// goroutine, so no two mutations ever interleave.
type Controller struct {
	book        orderbookv1.Book
	tape        tapev1.Tape
	source      OrderSource
	processor   OrderProcessor
	broadcaster snapshotv1.Broadcaster
	publisher   tradepublisherv1.Publisher // nil when publishing is disabled
	logger      *logger.Logger

	commands     chan command
	tickInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// owned exclusively by the run loop
	running bool
	ticker  *time.Ticker
}

// NewController creates a controller. publisher may be nil. A broadcaster
// must be attached and Start called before any command or snapshot request
// is posted.
func NewController(
	book orderbookv1.Book,
	tape tapev1.Tape,
	source OrderSource,
	processor OrderProcessor,
	publisher tradepublisherv1.Publisher,
	logger *logger.Logger,
	options *Options,
) *Controller {
	if options == nil {
		options = DefaultOptions()
	}
	return &Controller{
		book:         book,
		tape:         tape,
		source:       source,
		processor:    processor,
		publisher:    publisher,
		logger:       logger,
		commands:     make(chan command, options.CommandBuffer),
		tickInterval: options.TickInterval,
	}
}

// AttachBroadcaster wires the observer fan-out. The broadcaster is built
// after the controller because it forwards inbound commands back to it.
func (c *Controller) AttachBroadcaster(broadcaster snapshotv1.Broadcaster) {
	c.broadcaster = broadcaster
}

// Start launches the mutation loop. The simulation itself stays stopped
// until a "start" command arrives.
func (c *Controller) Start(ctx context.Context) error {
	if c.broadcaster == nil {
		return errors.New(errors.GeneralInternalServerError, "no broadcaster attached")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.run()

	c.logger.Info("simulation controller started", logger.Field{
		Key:   "tickInterval",
		Value: c.tickInterval.String(),
	})
	return nil
}

// Stop gracefully shuts down the mutation loop.
func (c *Controller) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("simulation controller stopped")
		return nil
	case <-ctx.Done():
		c.logger.Warn("simulation controller stop timeout exceeded")
		return ctx.Err()
	}
}

// HandleCommand posts an inbound text command. "start" and "stop" drive the
// simulation state machine; anything else is logged and ignored. Every
// handled command, including no-ops, is followed by a broadcast.
func (c *Controller) HandleCommand(text string) {
	c.post(command{kind: commandText, text: text})
}

// SubscriberConnected delivers the current snapshot to the new subscriber
// only, via the mutation loop so it observes consistent state.
func (c *Controller) SubscriberConnected(subscriber snapshotv1.Receiver) {
	c.post(command{kind: commandSubscriber, subscriber: subscriber})
}

// Snapshot returns the current state on demand, independent of the push
// channel. The read is served by the mutation loop.
func (c *Controller) Snapshot(ctx context.Context) (snapshotv1.Snapshot, error) {
	reply := make(chan snapshotv1.Snapshot, 1)

	select {
	case c.commands <- command{kind: commandSnapshot, reply: reply}:
	case <-ctx.Done():
		return snapshotv1.Snapshot{}, errors.New(errors.ErrSnapshotUnavailable, "snapshot request not accepted")
	case <-c.ctx.Done():
		return snapshotv1.Snapshot{}, errors.New(errors.ErrSnapshotUnavailable, "simulation shutting down")
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return snapshotv1.Snapshot{}, errors.New(errors.ErrSnapshotUnavailable, "snapshot request timed out")
	}
}

func (c *Controller) post(cmd command) {
	select {
	case c.commands <- cmd:
	case <-c.ctx.Done():
	}
}

func (c *Controller) run() {
	defer c.wg.Done()

	// tickC is nil while stopped, so the select never fires a tick. It is
	// also nilled on stop before any pending tick can be consumed, which
	// makes cancellation synchronous from the controller's point of view.
	var tickC <-chan time.Time

	for {
		select {
		case <-c.ctx.Done():
			if c.ticker != nil {
				c.ticker.Stop()
				c.ticker = nil
			}
			c.running = false
			c.logger.Info("mutation loop shutting down")
			return

		case cmd := <-c.commands:
			switch cmd.kind {
			case commandText:
				tickC = c.applyCommand(cmd.text, tickC)
				c.broadcast()
			case commandSubscriber:
				cmd.subscriber.Send(c.snapshot())
			case commandSnapshot:
				cmd.reply <- c.snapshot()
			}

		case <-tickC:
			c.tick()
			c.broadcast()
		}
	}
}

// applyCommand runs the Stopped/Running state machine. Both transitions are
// idempotent: starting while running and stopping while stopped are no-ops.
func (c *Controller) applyCommand(text string, tickC <-chan time.Time) <-chan time.Time {
	switch text {
	case "start":
		if c.running {
			return tickC
		}
		c.ticker = time.NewTicker(c.tickInterval)
		c.running = true
		c.logger.Info("simulation started")
		return c.ticker.C

	case "stop":
		if !c.running {
			return tickC
		}
		c.ticker.Stop()
		c.ticker = nil
		c.running = false
		c.logger.Info("simulation stopped")
		return nil

	default:
		c.logger.Info("ignoring unknown command", logger.Field{
			Key:   "command",
			Value: text,
		})
		return tickC
	}
}

func (c *Controller) tick() {
	order := c.source.Generate()
	metrics.OrdersGeneratedTotal.Inc()

	trades, err := c.processor.ProcessOrder(order)
	if err != nil {
		metrics.OrdersRejectedTotal.Inc()
		c.logger.Warn("rejecting invalid order",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}
	metrics.TradesExecutedTotal.Add(float64(len(trades)))

	if c.publisher != nil && len(trades) > 0 {
		// fire and forget so a slow broker never blocks the mutation loop;
		// failures are logged by the publisher
		go func(trades []tapev1.Trade) {
			_ = c.publisher.PublishTrades(c.ctx, trades)
		}(trades)
	}
}

func (c *Controller) snapshot() snapshotv1.Snapshot {
	bids := c.book.SortedBids()
	asks := c.book.SortedAsks()

	snap := snapshotv1.Snapshot{
		Bids:         make(map[string]int64, len(bids)),
		Asks:         make(map[string]int64, len(asks)),
		Trades:       c.tape.RecentTrades(),
		IsSimulating: c.running,
	}
	for _, level := range bids {
		snap.Bids[snapshotv1.PriceKey(level.Price)] = level.Quantity
	}
	for _, level := range asks {
		snap.Asks[snapshotv1.PriceKey(level.Price)] = level.Quantity
	}
	return snap
}

func (c *Controller) broadcast() {
	c.broadcaster.Broadcast(c.snapshot())
	metrics.SnapshotBroadcastsTotal.Inc()
}
