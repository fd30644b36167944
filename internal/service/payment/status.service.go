package payment

import (
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

func (s *Service) GetPaymentStatus(user types.UserWithAuth, orderID uint64) *types.Response {
	order, res := s.findOrder(user, orderID)
	if res != nil {
		return res
	}
	return helper.ParseResponse(&types.Response{Data: toStatusResponse(order)})
}

// ConfirmOrder runs the confirmation inline. Local runs use it in place of the order.created worker.
func (s *Service) ConfirmOrder(user types.UserWithAuth, orderID uint64) *types.Response {
	if _, res := s.findOrder(user, orderID); res != nil {
		return res
	}

	if _, err := s.ConfirmPayment(s.ctx, orderID); err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to confirm payment", Error: err})
	}

	order, res := s.findOrder(user, orderID)
	if res != nil {
		return res
	}
	return helper.ParseResponse(&types.Response{Message: "Payment confirmed", Data: toStatusResponse(order)})
}

func (s *Service) findOrder(user types.UserWithAuth, orderID uint64) (*models.Order, *types.Response) {
	order, err := s.rp.Order.FindByIDForUser(s.ctx, orderID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Order not found"})
		}
		return nil, helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to fetch order", Error: err})
	}
	return order, nil
}

func toStatusResponse(order *models.Order) PaymentStatusResponse {
	res := PaymentStatusResponse{
		OrderID:       order.ID,
		OrderStatus:   order.Status.ToString(),
		PaymentStatus: order.PaymentStatus().ToString(),
		Amount:        order.TotalAmount,
		Currency:      Currency,
	}
	if order.Payment != nil {
		res.PaymentIntentID = order.Payment.PaymentIntentID
		res.PaymentMethod = order.Payment.PaymentMethod
		res.Amount = order.Payment.Amount
	}
	return res
}
