package tradepublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
	"github.com/muhammadchandra19/market-sim/pkg/config"
	"github.com/muhammadchandra19/market-sim/pkg/errors"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

// Publisher publishes executed trades to a Kafka topic as JSON messages.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a new Kafka publisher for executed trades.
func NewPublisher(cfg config.TradePublisherConfig, logger *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTrades publishes the trades of one matching pass to the Kafka
// topic, oldest fill first.
func (p *Publisher) PublishTrades(ctx context.Context, trades []tapev1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		value, err := json.Marshal(trade)
		if err != nil {
			return errors.TracerFromError(err)
		}
		msgs = append(msgs, kafka.Message{Value: value})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "action", Value: "publish_trades"},
			logger.Field{Key: "count", Value: len(trades)},
		)
		return errors.New(errors.ErrPublishTrade, "failed to publish trades")
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
