package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the application
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3001"`

	SimulationConfig     `envPrefix:"SIMULATION_"`
	TradePublisherConfig `envPrefix:"TRADE_PUBLISHER_"`
}

// SimulationConfig holds the tunables of the market simulation.
type SimulationConfig struct {
	TickInterval          time.Duration `env:"TICK_INTERVAL" envDefault:"750ms"`
	TapeCapacity          int           `env:"TAPE_CAPACITY" envDefault:"50"`
	InitialReferencePrice float64       `env:"INITIAL_REFERENCE_PRICE" envDefault:"100.0"`
	PriceVolatility       float64       `env:"PRICE_VOLATILITY" envDefault:"1.5"`
	MinOrderQuantity      int64         `env:"MIN_ORDER_QUANTITY" envDefault:"10"`
	MaxOrderQuantity      int64         `env:"MAX_ORDER_QUANTITY" envDefault:"100"`
}

// TradePublisherConfig holds the configuration for the Kafka trade publisher.
// Publishing is disabled when no brokers are configured.
type TradePublisherConfig struct {
	Brokers []string `env:"BROKER"`
	Topic   string   `env:"TOPIC" envDefault:"market-sim.trades"`
}

// PublisherEnabled reports whether a Kafka trade publisher should be wired.
func (c TradePublisherConfig) PublisherEnabled() bool {
	return len(c.Brokers) > 0
}
