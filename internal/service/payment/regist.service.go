package payment

import (
	"context"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"ecosync-hub/internal/repository"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Currency      = "BDT"
	PaymentMethod = "card"
	intentPrefix  = "pi_mock_"
)

type Service struct {
	ctx context.Context
	rp  *repository.IRepository
	s3  s3aws.Is3
}

type IService interface {
	// HandleOrderCreated is the order.created subscriber handler.
	HandleOrderCreated(msg *amqp.Delivery) (any, error)
	ConfirmPayment(ctx context.Context, orderID uint64) (*models.Payment, error)
	GetPaymentStatus(user types.UserWithAuth, orderID uint64) *types.Response
	ConfirmOrder(user types.UserWithAuth, orderID uint64) *types.Response
}

type PaymentStatusResponse struct {
	OrderID         uint64  `json:"order_id"`
	OrderStatus     string  `json:"order_status"`
	PaymentStatus   string  `json:"payment_status"`
	PaymentIntentID string  `json:"payment_intent_id,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
}

// NewService builds the confirmation worker. s3 may be nil, which disables receipt archiving.
func NewService(ctx context.Context, rp *repository.IRepository, s3 s3aws.Is3) IService {
	return &Service{
		ctx: ctx,
		rp:  rp,
		s3:  s3,
	}
}
