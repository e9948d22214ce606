package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/entity"
)

func TestSessionHappyPath(t *testing.T) {
	s := NewSession("s1", "YouTube Premium", 2, 40, time.Now())
	assert.Equal(t, StateAwaitingPayment, s.State)

	require.NoError(t, s.ConfirmPayment("TRK17000000000001234"))
	assert.Equal(t, StateOrderConfirmed, s.State)

	require.NoError(t, s.SelectChannel(entity.ChannelWhatsApp))
	assert.Equal(t, StateClosed, s.State)

	o := s.Order()
	assert.Equal(t, "TRK17000000000001234", o.OrderID)
	assert.Equal(t, 40.0, o.Total)
	assert.Equal(t, entity.ChannelWhatsApp, o.Channel)
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := NewSession("s1", "YouTube Premium", 1, 20, time.Now())

	err := s.SelectChannel(entity.ChannelDiscord)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	require.NoError(t, s.ConfirmPayment("TRK17300000001231"))
	err = s.ConfirmPayment("TRK17300000001232")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, "TRK17300000001231", s.OrderID)

	s.Close()
	err = s.SelectChannel(entity.ChannelDiscord)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestSessionRejectsMalformedOrderID(t *testing.T) {
	s := NewSession("s1", "YouTube Premium", 1, 20, time.Now())

	require.Error(t, s.ConfirmPayment("ORD-1"))
	assert.Equal(t, StateAwaitingPayment, s.State)
	assert.Empty(t, s.OrderID)
}

func TestOrderIDFormat(t *testing.T) {
	at := time.UnixMilli(1730000000123)
	g := &IDGenerator{Now: func() time.Time { return at }, Rand: func(int) int { return 987 }}

	id := g.Next()
	assert.Equal(t, "TRK1730000000123987", id)
	assert.True(t, ValidOrderID(id))
}

func TestOrderIDSameDrawCollides(t *testing.T) {
	at := time.UnixMilli(1730000000123)
	g := &IDGenerator{Now: func() time.Time { return at }, Rand: func(int) int { return 5 }}

	assert.Equal(t, g.Next(), g.Next())
}

func TestDefaultGeneratorShape(t *testing.T) {
	g := NewIDGenerator()
	for i := 0; i < 100; i++ {
		assert.True(t, ValidOrderID(g.Next()))
	}
	assert.False(t, ValidOrderID("ORD123"))
	assert.False(t, ValidOrderID("TRK"))
}
