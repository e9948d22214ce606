// Package events carries storefront events over Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	EventOrderCompleted = "completed"
	EventRecentPurchase = "recent_purchase"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes to one topic.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// PublishOrderCompleted emits order.completed.<orderId>.
func (p *Publisher) PublishOrderCompleted(ctx context.Context, ev entity.OrderEvent) error {
	return p.publish(ctx, fmt.Sprintf("order.%s.%s", EventOrderCompleted, ev.OrderID), ev)
}

// PublishActivity emits activity.<kind>.<unix-ms>.
func (p *Publisher) PublishActivity(ctx context.Context, n entity.ActivityNotice) error {
	return p.publish(ctx, fmt.Sprintf("activity.%s.%d", n.Kind, n.At.UnixMilli()), n)
}

func (p *Publisher) publish(ctx context.Context, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s", key)
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
