package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
	"storefront-service/internal/handoff"
)

// maxOrderIDDraws bounds how often a clashing order id is redrawn.
const maxOrderIDDraws = 5

type OrderStore interface {
	CompleteOrder(ctx context.Context, order *entity.Order) (*entity.Completion, error)
}

type SessionStore interface {
	Save(ctx context.Context, sess *checkout.Session) error
	Get(ctx context.Context, id string) (*checkout.Session, error)
	Update(ctx context.Context, id string, fn func(sess *checkout.Session) error) (*checkout.Session, error)
	Delete(ctx context.Context, id string) error
}

type OrderIDReserver interface {
	Reserve(ctx context.Context, id string) (bool, error)
}

type OrderPublisher interface {
	PublishOrderCompleted(ctx context.Context, ev entity.OrderEvent) error
}

// Fulfilment is the outcome of a completed checkout.
type Fulfilment struct {
	Order      entity.Order   `json:"order"`
	Stock      int            `json:"stock"`
	Stats      entity.Stats   `json:"stats"`
	Channel    entity.Channel `json:"channel"`
	HandoffURL string         `json:"handoff_url"`
}

// CheckoutService drives a purchase from the buy button to the hand-off.
type CheckoutService struct {
	catalog   *CatalogService
	orders    OrderStore
	sessions  SessionStore
	ids       OrderIDReserver
	publisher OrderPublisher
	links     handoff.Builder

	idGen        *checkout.IDGenerator
	newSessionID func() string
	now          func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(catalogSvc *CatalogService, orders OrderStore, sessions SessionStore, ids OrderIDReserver, publisher OrderPublisher, links handoff.Builder) *CheckoutService {
	return &CheckoutService{
		catalog:      catalogSvc,
		orders:       orders,
		sessions:     sessions,
		ids:          ids,
		publisher:    publisher,
		links:        links,
		idGen:        checkout.NewIDGenerator(),
		newSessionID: uuid.NewString,
		now:          time.Now,
	}
}

// Begin opens a payment dialog for quantity units of a product. The
// quantity is checked against the live stock and the total is computed
// here, never taken from the caller.
func (s *CheckoutService) Begin(ctx context.Context, productName string, quantity int) (*checkout.Session, error) {
	def, stock, err := s.catalog.LiveStock(ctx, productName)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateQuantity(def, stock, quantity); err != nil {
		return nil, err
	}

	sess := checkout.NewSession(s.newSessionID(), def.Name, quantity, catalog.Total(def, quantity), s.now().UTC())
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Error().Err(err).Msg("Error saving checkout session")
		return nil, err
	}
	return sess, nil
}

func (s *CheckoutService) Get(ctx context.Context, id string) (*checkout.Session, error) {
	return s.sessions.Get(ctx, id)
}

// ConfirmPayment takes the customer's word that they paid and issues an
// order id. The session is updated with compare-and-set, so of two
// concurrent confirmations only one issues an id.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, id string) (*checkout.Session, error) {
	sess, err := s.sessions.Update(ctx, id, func(sess *checkout.Session) error {
		if sess.State != checkout.StateAwaitingPayment {
			return fmt.Errorf("confirm payment in state %s: %w", sess.State, checkout.ErrInvalidTransition)
		}
		orderID, err := s.drawOrderID(ctx)
		if err != nil {
			return err
		}
		return sess.ConfirmPayment(orderID)
	})
	if err != nil {
		logger.Warn().Err(err).Msgf("Payment confirmation for checkout %s rejected", id)
		return nil, err
	}
	logger.Info().Msgf("Order %s confirmed for %d x %s", sess.OrderID, sess.Quantity, sess.ProductName)
	return sess, nil
}

func (s *CheckoutService) drawOrderID(ctx context.Context) (string, error) {
	for i := 0; i < maxOrderIDDraws; i++ {
		orderID := s.idGen.Next()
		ok, err := s.ids.Reserve(ctx, orderID)
		if err != nil {
			logger.Error().Err(err).Msg("Error reserving order id")
			return "", err
		}
		if ok {
			return orderID, nil
		}
		logger.Warn().Msgf("Order id %s already issued, drawing again", orderID)
	}
	return "", entity.ErrDuplicateOrder
}

// Fulfil records the order and returns the link for the chosen channel.
// The order, the stock decrement and the stats update commit together or
// not at all; on failure the session stays open so the customer can retry.
func (s *CheckoutService) Fulfil(ctx context.Context, id string, ch entity.Channel) (*Fulfilment, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectChannel(ch); err != nil {
		return nil, err
	}

	order := sess.Order()
	completion, err := s.orders.CompleteOrder(ctx, &order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error completing order %s", sess.OrderID)
		return nil, err
	}

	s.catalog.Invalidate(ctx)

	err = s.publisher.PublishOrderCompleted(ctx, entity.OrderEvent{
		OrderID:     completion.Order.OrderID,
		ProductName: completion.Order.ProductName,
		Quantity:    completion.Order.Quantity,
		Total:       completion.Order.Total,
		Channel:     completion.Order.Channel,
		Stock:       completion.Stock,
		CreatedAt:   completion.Order.CreatedAt,
	})
	if err != nil {
		logger.Warn().Err(err).Msgf("Order %s committed but its event was not published", completion.Order.OrderID)
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Msgf("Error deleting checkout session %s", id)
	}

	link, err := s.links.Link(ch, completion.Order)
	if err != nil {
		return nil, err
	}

	return &Fulfilment{
		Order:      completion.Order,
		Stock:      completion.Stock,
		Stats:      completion.Stats,
		Channel:    ch,
		HandoffURL: link,
	}, nil
}

// Cancel closes the dialog without ordering.
func (s *CheckoutService) Cancel(ctx context.Context, id string) error {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Close()
	return s.sessions.Delete(ctx, id)
}
