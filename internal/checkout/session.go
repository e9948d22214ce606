// Package checkout models the payment confirmation dialog: a session waits
// for the customer to report payment, then carries the order id until a
// fulfilment channel is picked.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/entity"
)

type State string

const (
	StateAwaitingPayment State = "awaiting_payment"
	StateOrderConfirmed  State = "order_confirmed"
	StateClosed          State = "closed"
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

type Session struct {
	ID          string         `json:"id"`
	ProductName string         `json:"product_name"`
	Quantity    int            `json:"quantity"`
	Total       float64        `json:"total"`
	State       State          `json:"state"`
	OrderID     string         `json:"order_id,omitempty"`
	Channel     entity.Channel `json:"channel,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewSession(id, productName string, quantity int, total float64, now time.Time) *Session {
	return &Session{
		ID:          id,
		ProductName: productName,
		Quantity:    quantity,
		Total:       total,
		State:       StateAwaitingPayment,
		CreatedAt:   now,
	}
}

// ConfirmPayment records the customer's own report that they paid. No
// payment verification happens here.
func (s *Session) ConfirmPayment(orderID string) error {
	if s.State != StateAwaitingPayment {
		return fmt.Errorf("confirm payment in state %s: %w", s.State, ErrInvalidTransition)
	}
	if !ValidOrderID(orderID) {
		return fmt.Errorf("malformed order id %q", orderID)
	}
	s.OrderID = orderID
	s.State = StateOrderConfirmed
	return nil
}

// SelectChannel picks the fulfilment channel and closes the dialog.
func (s *Session) SelectChannel(ch entity.Channel) error {
	if s.State != StateOrderConfirmed {
		return fmt.Errorf("select channel in state %s: %w", s.State, ErrInvalidTransition)
	}
	s.Channel = ch
	s.State = StateClosed
	return nil
}

// Close dismisses the dialog from any state.
func (s *Session) Close() {
	s.State = StateClosed
}

// Order builds the order row this session stands for.
func (s *Session) Order() entity.Order {
	return entity.Order{
		OrderID:     s.OrderID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		Total:       s.Total,
		Channel:     s.Channel,
	}
}
