package types

import "time"

// OrderCreatedEvent is published on the order.created queue once an order commits.
type OrderCreatedEvent struct {
	OrderID     uint64    `json:"order_id"`
	UserID      uint64    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}
