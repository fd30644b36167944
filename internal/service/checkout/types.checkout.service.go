package checkout

import (
	"errors"
	"time"
)

const (
	CartPath               = "/cart"
	OrdersPath             = "/orders"
	FallbackFailureMessage = "Payment failed. Please try again."
)

var (
	ErrMissingCheckoutContext = errors.New("checkout context is missing total or order items")
	ErrSubmissionInFlight     = errors.New("payment submission already in progress")
	ErrAlreadySucceeded       = errors.New("order already placed")
	ErrFlowClosed             = errors.New("checkout flow closed")
)

type OrderItem struct {
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Context is the cart snapshot handed to the payment step.
type Context struct {
	Total      float64     `json:"total"`
	Address    string      `json:"address"`
	OrderItems []OrderItem `json:"orderItems"`
}

// Valid reports whether the context carries a total and at least one item.
func (c *Context) Valid() bool {
	return c != nil && c.Total > 0 && len(c.OrderItems) > 0
}

type OrderRequest struct {
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	OrderItems      []OrderItem `json:"order_items"`
}

// OrderResult is the order-creation answer. Older backends send orderId instead of id.
type OrderResult struct {
	ID              uint64     `json:"id"`
	LegacyID        uint64     `json:"orderId,omitempty"`
	Status          string     `json:"status,omitempty"`
	PaymentStatus   string     `json:"payment_status,omitempty"`
	TotalAmount     float64    `json:"total_amount,omitempty"`
	ShippingAddress string     `json:"shipping_address,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

func (r *OrderResult) OrderID() uint64 {
	if r == nil {
		return 0
	}
	if r.ID != 0 {
		return r.ID
	}
	return r.LegacyID
}

// OrderSubmissionError is the only failure a submission surfaces.
// Message is what the customer sees.
type OrderSubmissionError struct {
	Message string
	Err     error
}

func (e *OrderSubmissionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderSubmissionError) Unwrap() error {
	return e.Err
}

// failureMessage picks the collaborator's message when it sent one.
func failureMessage(err error) string {
	var subErr *OrderSubmissionError
	if errors.As(err, &subErr) && subErr.Message != "" {
		return subErr.Message
	}
	return FallbackFailureMessage
}

// Snapshot is a point-in-time view of a flow.
type Snapshot struct {
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	OrderID    uint64    `json:"order_id,omitempty"`
	RedirectTo string    `json:"redirect_to,omitempty"`
	Attempt    int       `json:"attempt"`
	Version    uint64    `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}
