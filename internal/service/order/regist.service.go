package order

import (
	"context"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/rabbitmq"
	"ecosync-hub/internal/pkg/redis"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"ecosync-hub/internal/repository"
	"time"

	"github.com/samber/lo"
)

const idempotencyTTL = 24 * time.Hour

type Service struct {
	ctx       context.Context
	rp        *repository.IRepository
	rds       redis.IRedis
	publisher rabbitmq.IPublisher
	s3        s3aws.Is3
}

type IService interface {
	CreateOrder(user types.UserWithAuth, idempotencyKey string, req *CreateOrderRequest) *types.Response
	ListOrders(user types.UserWithAuth) *types.Response
	GetOrder(user types.UserWithAuth, id uint64) *types.Response
	GetReceipt(user types.UserWithAuth, id uint64) *types.Response
}

func NewService(ctx context.Context, rp *repository.IRepository, rds redis.IRedis, publisher rabbitmq.IPublisher, s3 s3aws.Is3) IService {
	if publisher == nil {
		publisher = rabbitmq.NoopPublisher{}
	}
	return &Service{
		ctx:       ctx,
		rp:        rp,
		rds:       rds,
		publisher: publisher,
		s3:        s3,
	}
}

type OrderItemRequest struct {
	ProductID uint64  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gte=1"`
	Price     float64 `json:"price" binding:"gte=0"`
}

type CreateOrderRequest struct {
	TotalAmount     float64            `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
	OrderItems      []OrderItemRequest `json:"order_items" binding:"omitempty,dive"`
}

type OrderItemResponse struct {
	ID        uint64  `json:"id"`
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderResponse carries orderId next to id for storefront clients that read it.
type OrderResponse struct {
	ID              uint64              `json:"id"`
	OrderID         uint64              `json:"orderId"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	TotalAmount     float64             `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	OrderItems      []OrderItemResponse `json:"order_items"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OrderID:         o.ID,
		Status:          o.Status.ToString(),
		PaymentStatus:   o.PaymentStatus().ToString(),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		OrderItems: lo.Map(o.Items, func(i models.OrderItem, _ int) OrderItemResponse {
			return OrderItemResponse{ID: i.ID, ProductID: i.ProductID, Quantity: i.Quantity, Price: i.Price}
		}),
		CreatedAt: o.CreatedAt,
	}
}
