package catalog

import "storefront-service/internal/entity"

// Selector tracks the quantity picked for one product card. The quantity
// starts at the product minimum and moves in steps of one inside
// [MinQuantity, Upper].
type Selector struct {
	product  entity.Product
	stock    int
	quantity int
}

func NewSelector(p entity.Product, stock int) *Selector {
	return &Selector{product: p, stock: stock, quantity: p.MinQuantity}
}

func (s *Selector) Quantity() int { return s.quantity }

func (s *Selector) Upper() int { return Upper(s.product, s.stock) }

func (s *Selector) Total() float64 { return Total(s.product, s.quantity) }

// Increment adds one unless the upper bound is reached. It reports whether
// the quantity changed.
func (s *Selector) Increment() bool {
	if s.quantity >= s.Upper() {
		return false
	}
	s.quantity++
	return true
}

// Decrement removes one unless the minimum is reached.
func (s *Selector) Decrement() bool {
	if s.quantity <= s.product.MinQuantity {
		return false
	}
	s.quantity--
	return true
}

// CanBuy is false when the stock is below the product minimum.
func (s *Selector) CanBuy() bool {
	return s.quantity <= s.Upper()
}
