package generator

import (
	"math/rand"
	"time"

	orderbookv1 "github.com/muhammadchandra19/market-sim/internal/domain/orderbook/v1"
)

// ReferenceSource provides the price synthetic orders are centered on.
type ReferenceSource interface {
	ReferencePrice() float64
}

// Options represents configuration options for the Generator.
type Options struct {
	// PriceVolatility is the maximum deviation from the reference price.
	PriceVolatility float64
	MinQuantity     int64
	MaxQuantity     int64
	Seed            int64
}

// DefaultOptions returns the default generator options.
func DefaultOptions() *Options {
	return &Options{
		PriceVolatility: 1.5,
		MinQuantity:     10,
		MaxQuantity:     100,
		Seed:            time.Now().UnixNano(),
	}
}

// Generator synthesizes random orders around the tape's reference price. It
// has no side effects beyond its own ID counter and random source.
type Generator struct {
	reference ReferenceSource
	rng       *rand.Rand
	options   *Options
	nextID    int64
}

// NewGenerator creates a generator reading the given reference source.
func NewGenerator(reference ReferenceSource, options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	return &Generator{
		reference: reference,
		rng:       rand.New(rand.NewSource(options.Seed)),
		options:   options,
	}
}

// Generate returns the next synthetic order: uniform buy/sell, price within
// +/- PriceVolatility of the reference price normalized to two decimals,
// quantity uniform over [MinQuantity, MaxQuantity], monotonically
// increasing ID.
func (g *Generator) Generate() orderbookv1.Order {
	side := orderbookv1.SideBuy
	if g.rng.Float64() < 0.5 {
		side = orderbookv1.SideSell
	}

	offset := (g.rng.Float64() - 0.5) * 2 * g.options.PriceVolatility
	price := orderbookv1.NormalizePrice(g.reference.ReferencePrice() + offset)

	quantity := g.options.MinQuantity + g.rng.Int63n(g.options.MaxQuantity-g.options.MinQuantity+1)

	g.nextID++
	return orderbookv1.Order{
		ID:       g.nextID,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}
}
