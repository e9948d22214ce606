package entity

import "time"

// OrderEvent is published on the order topic once an order is committed.
type OrderEvent struct {
	OrderID     string    `json:"order_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Total       float64   `json:"total"`
	Channel     Channel   `json:"channel"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityNotice is generated activity shown to visitors. It never
// corresponds to a real order, hence Synthetic is always true.
type ActivityNotice struct {
	Kind        string    `json:"kind"`
	ProductName string    `json:"product_name"`
	Message     string    `json:"message"`
	Synthetic   bool      `json:"synthetic"`
	At          time.Time `json:"at"`
}
