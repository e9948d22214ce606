package events

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CatalogInvalidator drops the cached stock snapshot.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Consumer listens to order events so that every instance drops its stale
// stock snapshot, not only the one that took the order.
type Consumer struct {
	reader  messageReader
	catalog CatalogInvalidator
}

func NewConsumer(reader messageReader, catalog CatalogInvalidator) *Consumer {
	return &Consumer{reader: reader, catalog: catalog}
}

// Run reads until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage dispatches on the event type in the key,
// "order.completed.TRK..." -> "completed".
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	parts := strings.SplitN(string(msg.Key), ".", 3)
	if len(parts) < 2 {
		log.Error().Msgf("Malformed event key: %q", msg.Key)
		return
	}

	switch parts[1] {
	case EventOrderCompleted:
		if err := c.catalog.Invalidate(ctx); err != nil {
			log.Error().Msgf("Error invalidating catalog cache: %v", err)
		}
	default:
		log.Debug().Msgf("Ignoring event %s", msg.Key)
	}
}
