// Package activity generates the storefront's synthetic engagement: fake
// "someone just purchased" notices and slow growth of the public counters.
// Nothing here reflects real orders and every notice is labelled synthetic.
package activity

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
	"storefront-service/internal/events"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	DefaultNotifyEvery = 10 * time.Second
	DefaultStatsEvery  = 30 * time.Second
)

type NoticeSink interface {
	PublishActivity(ctx context.Context, n entity.ActivityNotice) error
}

type StatsGrower interface {
	Grow(ctx context.Context, orders int64, profit float64) (*entity.Stats, error)
}

type Generator struct {
	feed  *Feed
	sink  NoticeSink
	stats StatsGrower

	NotifyEvery time.Duration
	StatsEvery  time.Duration

	products []string
	rand     func(n int) int
	now      func() time.Time
}

func NewGenerator(feed *Feed, sink NoticeSink, stats StatsGrower) *Generator {
	return &Generator{
		feed:        feed,
		sink:        sink,
		stats:       stats,
		NotifyEvery: DefaultNotifyEvery,
		StatsEvery:  DefaultStatsEvery,
		products:    catalog.Names(),
		rand:        rand.Intn,
		now:         time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	notify := time.NewTicker(g.NotifyEvery)
	defer notify.Stop()
	grow := time.NewTicker(g.StatsEvery)
	defer grow.Stop()

	logger.Info().Msgf("Synthetic activity every %s, stats growth every %s", g.NotifyEvery, g.StatsEvery)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Synthetic activity stopped")
			return
		case <-notify.C:
			g.Notify(ctx)
		case <-grow.C:
			g.Grow(ctx)
		}
	}
}

// Notify emits one recent-purchase notice for a random product.
func (g *Generator) Notify(ctx context.Context) entity.ActivityNotice {
	name := g.products[g.rand(len(g.products))]
	n := entity.ActivityNotice{
		Kind:        events.EventRecentPurchase,
		ProductName: name,
		Message:     fmt.Sprintf("Someone just purchased %s", name),
		Synthetic:   true,
		At:          g.now().UTC(),
	}
	g.feed.Add(n)
	if g.sink != nil {
		if err := g.sink.PublishActivity(ctx, n); err != nil {
			logger.Warn().Err(err).Msg("Error publishing activity notice")
		}
	}
	return n
}

// Grow adds 1..3 orders and 30..50 profit to the public counters.
func (g *Generator) Grow(ctx context.Context) {
	orders := int64(g.rand(3) + 1)
	profit := float64(g.rand(21) + 30)
	stats, err := g.stats.Grow(ctx, orders, profit)
	if err != nil {
		return
	}
	if stats == nil {
		logger.Debug().Msg("No stats record yet, skipping growth")
	}
}
