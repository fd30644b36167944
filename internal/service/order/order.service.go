package order

import (
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/receipt"
	"ecosync-hub/internal/pkg/redis"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

const MessageOrderRequired = "Total amount and order items are required"

func idempotencyKey(userID uint64, key string) string {
	return fmt.Sprintf("order:idempotency:%d:%s", userID, key)
}

func (s *Service) CreateOrder(user types.UserWithAuth, key string, req *CreateOrderRequest) *types.Response {
	if req == nil || req.TotalAmount <= 0 || len(req.OrderItems) == 0 {
		return helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: MessageOrderRequired})
	}

	if key != "" {
		if res, done := s.claimIdempotencyKey(user, key); done {
			return res
		}
	}

	order := &models.Order{
		UserID:          user.ID,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		Status:          enum.ORDER_PENDING,
		Items: lo.Map(req.OrderItems, func(i OrderItemRequest, _ int) models.OrderItem {
			return models.OrderItem{ProductID: i.ProductID, Quantity: i.Quantity, Price: i.Price}
		}),
	}

	if err := s.rp.Order.CreateWithItems(s.ctx, order); err != nil {
		if key != "" {
			_ = s.rds.Del(idempotencyKey(user.ID, key))
		}
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to create order", Error: err})
	}

	if key != "" {
		if err := s.rds.Set(idempotencyKey(user.ID, key), order.ID, idempotencyTTL); err != nil {
			logger.Warning.Printf("failed to store idempotency key for order %d: %v", order.ID, err)
		}
	}

	event := types.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(s.ctx, enum.ORDER_CREATED_QUEUE.ToString(), event); err != nil {
		// The order stays pending until someone replays the event.
		logger.Error.Printf("failed to publish %s for order %d: %v", enum.ORDER_CREATED_QUEUE, order.ID, err)
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Order created successfully",
		Data:    toOrderResponse(order),
	})
}

// claimIdempotencyKey reserves key for this request. When the key was already
// used it returns the response to send instead and true.
func (s *Service) claimIdempotencyKey(user types.UserWithAuth, key string) (*types.Response, bool) {
	rk := idempotencyKey(user.ID, key)

	claimed, err := s.rds.SetNX(rk, uint64(0), idempotencyTTL)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to check idempotency key", Error: err}), true
	}
	if claimed {
		return nil, false
	}

	var orderID uint64
	if _, err := redis.GetJSON(s.rds, rk, &orderID); err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to check idempotency key", Error: err}), true
	}
	if orderID == 0 {
		return helper.ParseResponse(&types.Response{Code: http.StatusConflict, Message: "An order with this Idempotency-Key is being created"}), true
	}

	order, err := s.rp.Order.FindByIDForUser(s.ctx, orderID, user.ID)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load order", Error: err}), true
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Order already created",
		Data:    toOrderResponse(order),
	}), true
}

func (s *Service) ListOrders(user types.UserWithAuth) *types.Response {
	orders, err := s.rp.Order.FindByUser(s.ctx, user.ID)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to fetch orders", Error: err})
	}

	return helper.ParseResponse(&types.Response{
		Data: lo.Map(orders, func(o models.Order, _ int) OrderResponse { return toOrderResponse(&o) }),
	})
}

func (s *Service) GetOrder(user types.UserWithAuth, id uint64) *types.Response {
	order, res := s.findOrder(user, id)
	if res != nil {
		return res
	}
	return helper.ParseResponse(&types.Response{Data: toOrderResponse(order)})
}

func (s *Service) GetReceipt(user types.UserWithAuth, id uint64) *types.Response {
	order, res := s.findOrder(user, id)
	if res != nil {
		return res
	}

	rc := receipt.Build(order)
	if s.s3 != nil && order.PaymentStatus() == enum.PAYMENT_SUCCEEDED {
		url, err := s.s3.GetPresignedURL(receipt.Key(order.ID))
		if err != nil {
			logger.Debug.Printf("no archived receipt for order %d: %v", order.ID, err)
		} else {
			rc.ArchiveURL = url
		}
	}

	return helper.ParseResponse(&types.Response{Data: rc})
}

func (s *Service) findOrder(user types.UserWithAuth, id uint64) (*models.Order, *types.Response) {
	order, err := s.rp.Order.FindByIDForUser(s.ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Order not found"})
		}
		return nil, helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to fetch order", Error: err})
	}
	return order, nil
}
