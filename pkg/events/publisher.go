package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/example/nyksales/pkg/config"
)

// Publisher emits order lifecycle events to Kafka. The server runs
// without it when no brokers are configured.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// PublishOrderEvent writes one message keyed order-<action>-<id>,
// e.g. order-created-3f2a... with the serialized order as value.
func (p *Publisher) PublishOrderEvent(ctx context.Context, action, orderID string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", action, orderID)),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("action", action),
			zap.String("order_id", orderID),
			zap.Error(err))
		return err
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
