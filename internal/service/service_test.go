package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
	"storefront-service/internal/handoff"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type checkoutFixture struct {
	store     *memStore
	cache     *memCache
	sessions  *memSessions
	guard     *memGuard
	publisher *recordingPublisher
	svc       *CheckoutService
}

func newCheckoutFixture(stock map[string]int, suffixes ...int) *checkoutFixture {
	f := &checkoutFixture{
		store:     newMemStore(stock),
		cache:     &memCache{},
		sessions:  newMemSessions(),
		guard:     &memGuard{seen: map[string]bool{}},
		publisher: &recordingPublisher{},
	}
	catalogSvc := NewCatalogService(f.store, f.cache)
	links := handoff.Builder{DiscordTicketURL: "https://discord.test/ticket", WhatsAppNumber: "15550001111", CurrencySymbol: "₹"}
	f.svc = NewCheckoutService(catalogSvc, f.store, f.sessions, f.guard, f.publisher, links)

	next := 0
	f.svc.idGen = &checkout.IDGenerator{
		Now: func() time.Time { return fixedNow },
		Rand: func(int) int {
			if len(suffixes) == 0 {
				return 42
			}
			v := suffixes[next%len(suffixes)]
			next++
			return v
		},
	}
	f.svc.newSessionID = func() string { return "sess-1" }
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestCheckout_FullPurchase(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 10})
	_, err := f.store.EnsureStats(ctx)
	require.NoError(t, err)

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 2)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateAwaitingPayment, sess.State)
	assert.Equal(t, 40.0, sess.Total)

	sess, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateOrderConfirmed, sess.State)
	assert.Equal(t, checkout.FormatOrderID(fixedNow, 42), sess.OrderID)

	res, err := f.svc.Fulfil(ctx, sess.ID, entity.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, 40.0, res.Order.Total)
	assert.Equal(t, 8, res.Stock)
	assert.Equal(t, int64(1013), res.Stats.TotalOrders)
	assert.Equal(t, 3540.0, res.Stats.TotalProfit)
	assert.True(t, strings.HasPrefix(res.HandoffURL, "https://wa.me/15550001111?text="))
	assert.Contains(t, res.HandoffURL, sess.OrderID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, sess.OrderID, f.publisher.events[0].OrderID)
	assert.Equal(t, 8, f.publisher.events[0].Stock)
	assert.Equal(t, 1, f.cache.invalidated)

	_, err = f.svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestCheckout_FirstOrderStartsFromInitialStats(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 10})

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 2)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)
	res, err := f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	require.NoError(t, err)

	assert.Equal(t, int64(1013), res.Stats.TotalOrders)
	assert.Equal(t, 3540.0, res.Stats.TotalProfit)

	stats, err := NewStatsService(f.store).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Stats, *stats)
}

func TestCheckout_ConcurrentConfirmLosesCleanly(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	f.sessions.conflict = true

	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	assert.ErrorIs(t, err, checkout.ErrInvalidTransition)
	assert.Equal(t, checkout.StateAwaitingPayment, f.sessions.m[sess.ID].State)
}

func TestCheckout_DiscordLink(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"Canva Premium 1 Year": 3})

	sess, err := f.svc.Begin(ctx, "Canva Premium 1 Year", 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)

	res, err := f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	require.NoError(t, err)
	assert.Equal(t, "https://discord.test/ticket", res.HandoffURL)
	assert.Equal(t, entity.ChannelDiscord, res.Order.Channel)
}

func TestCheckout_BeginValidation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})

	_, err := f.svc.Begin(ctx, "Nope", 1)
	assert.ErrorAs(t, err, new(*entity.ValidationError))

	_, err = f.svc.Begin(ctx, "YouTube Premium", 0)
	assert.ErrorAs(t, err, new(*entity.ValidationError))

	_, err = f.svc.Begin(ctx, "YouTube Premium", 6)
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)

	assert.Empty(t, f.sessions.m)
}

func TestCheckout_ConfirmRedrawsClashingID(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5}, 7, 8)
	f.guard.seen[checkout.FormatOrderID(fixedNow, 7)] = true

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	sess, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.FormatOrderID(fixedNow, 8), sess.OrderID)
}

func TestCheckout_ConfirmGivesUpAfterRepeatedClashes(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5}, 7)
	f.guard.seen[checkout.FormatOrderID(fixedNow, 7)] = true

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	assert.ErrorIs(t, err, entity.ErrDuplicateOrder)

	stored, err := f.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateAwaitingPayment, stored.State)
}

func TestCheckout_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)

	_, err = f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	assert.ErrorIs(t, err, checkout.ErrInvalidTransition)

	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	assert.ErrorIs(t, err, checkout.ErrInvalidTransition)

	assert.Empty(t, f.store.orders)
}

func TestCheckout_FulfilFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})
	f.store.completeErr = errors.New("connection reset")

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	require.Error(t, err)

	stored, err := f.svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateOrderConfirmed, stored.State)
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, 0, f.cache.invalidated)
}

func TestCheckout_StockSoldOutBetweenBeginAndFulfil(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 2})

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 2)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.store.UpdateProductStock(ctx, "YouTube Premium", 1)
	require.NoError(t, err)

	_, err = f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)
	assert.Equal(t, 1, f.store.products["YouTube Premium"].Stock)
}

func TestCheckout_PublishFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})
	f.publisher.err = errors.New("broker down")

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, sess.ID)
	require.NoError(t, err)

	res, err := f.svc.Fulfil(ctx, sess.ID, entity.ChannelDiscord)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Stock)
	assert.Len(t, f.store.orders, 1)
}

func TestCheckout_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(map[string]int{"YouTube Premium": 5})

	sess, err := f.svc.Begin(ctx, "YouTube Premium", 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, sess.ID))

	_, err = f.svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Cancel(ctx, sess.ID), entity.ErrSessionNotFound)
}

func TestCatalog_ListProductsReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]int{"YouTube Premium": 5, "Spotify Premium (3 Months)": 9})
	cache := &memCache{}
	svc := NewCatalogService(store, cache)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
	_, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)

	stock := map[string]int{}
	for _, it := range items {
		stock[it.Name] = it.Stock
	}
	assert.Equal(t, 5, stock["YouTube Premium"])
	assert.Equal(t, 9, stock["Spotify Premium (3 Months)"])
	assert.Equal(t, 0, stock["Instagram Followers"])
}

func TestCatalog_WarmFillsCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]int{"YouTube Premium": 5})
	cache := &memCache{}
	svc := NewCatalogService(store, cache)

	require.NoError(t, svc.Warm(ctx))
	require.Len(t, cache.rows, 1)

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
}

func TestCatalog_Restock(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]int{"YouTube Premium": 5})
	cache := &memCache{rows: []entity.ProductStock{{Name: "YouTube Premium", Stock: 5}}}
	svc := NewCatalogService(store, cache)

	row, err := svc.Restock(ctx, "YouTube Premium", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, row.Stock)
	assert.Nil(t, cache.rows)

	_, err = svc.Restock(ctx, "YouTube Premium", -1)
	assert.ErrorAs(t, err, new(*entity.ValidationError))

	_, err = svc.Restock(ctx, "Nope", 1)
	assert.ErrorAs(t, err, new(*entity.ValidationError))
}

func TestStats_CurrentCreatesInitialRecord(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(nil)
	svc := NewStatsService(store)

	stats, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1012), stats.TotalOrders)
	assert.Equal(t, 3500.0, stats.TotalProfit)
	assert.Equal(t, 1, store.ensureCalls)

	again, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.ID, again.ID)
	assert.Equal(t, 1, store.ensureCalls)
}

func TestStats_ResetAndGrow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(nil)
	svc := NewStatsService(store)

	stats, err := svc.Reset(ctx, 10, 100.5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalOrders)

	stats, err = svc.Grow(ctx, 2, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalOrders)
	assert.Equal(t, 140.5, stats.TotalProfit)

	_, err = svc.Reset(ctx, -1, 0)
	assert.ErrorAs(t, err, new(*entity.ValidationError))
}

func TestFeedback_SubmitValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(nil)
	svc := NewFeedbackService(store, "https://cdn.test/avatar.png")

	cases := []struct {
		name    string
		author  string
		comment string
		rating  int
	}{
		{"blank name", "   ", "great", 5},
		{"blank feedback", "Asha", "  ", 5},
		{"missing rating", "Asha", "great", 0},
		{"rating too high", "Asha", "great", 6},
		{"rating negative", "Asha", "great", -1},
		{"name too long", strings.Repeat("n", 101), "great", 5},
		{"feedback too long", "Asha", strings.Repeat("é", 501), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.author, tc.comment, tc.rating)
			assert.ErrorAs(t, err, new(*entity.ValidationError))
		})
	}
	assert.Empty(t, store.feedbacks)
}

func TestFeedback_SubmitAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(nil)
	svc := NewFeedbackService(store, "https://cdn.test/avatar.png")
	ids := []string{"a", "b", "c"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	for _, name := range []string{"A", "B", "C"} {
		f, err := svc.Submit(ctx, "  "+name+"  ", " loved it ", 5)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name)
		assert.Equal(t, "loved it", f.Comment)
		assert.Equal(t, "https://cdn.test/avatar.png", f.AvatarURL)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{list[0].Name, list[1].Name, list[2].Name})
	assert.Equal(t, "c", list[0].ID)
}
