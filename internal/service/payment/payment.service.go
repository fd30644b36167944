package payment

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/receipt"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

func (s *Service) HandleOrderCreated(msg *amqp.Delivery) (any, error) {
	event, err := helper.StringToStruct[types.OrderCreatedEvent](string(msg.Body))
	if err == nil && (event == nil || event.OrderID == 0) {
		err = errors.New("missing order_id")
	}
	if err != nil {
		// A malformed body never gets better; drop it instead of retrying.
		logger.Error.Printf("discarding malformed order.created message %s: %v", msg.MessageId, err)
		return nil, nil
	}

	payment, err := s.ConfirmPayment(s.ctx, event.OrderID)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmPayment records the simulated card payment of an order and marks it paid.
// It is a no-op for an order whose payment already succeeded.
func (s *Service) ConfirmPayment(ctx context.Context, orderID uint64) (*models.Payment, error) {
	order, err := s.rp.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	existing, err := s.rp.Payment.FindByOrderID(ctx, orderID)
	switch {
	case err == nil && existing.Status == enum.PAYMENT_SUCCEEDED:
		logger.Info.Printf("payment for order %d already confirmed", orderID)
		return existing, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load payment of order %d: %w", orderID, err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment intent id: %w", err)
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		PaymentIntentID: intentPrefix + id,
		Amount:          order.TotalAmount,
		Currency:        Currency,
		Status:          enum.PAYMENT_SUCCEEDED,
		PaymentMethod:   PaymentMethod,
	}
	if err := s.rp.Payment.Confirm(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to confirm payment of order %d: %w", orderID, err)
	}
	logger.Info.Printf("order %d paid with %s", orderID, payment.PaymentIntentID)

	order.Status = enum.ORDER_PAID
	order.PaymentIntentID = payment.PaymentIntentID
	order.Payment = payment
	s.archiveReceipt(ctx, order)

	return payment, nil
}

func (s *Service) archiveReceipt(ctx context.Context, order *models.Order) {
	if s.s3 == nil {
		return
	}

	key := receipt.Key(order.ID)
	if err := s.s3.UploadFile(ctx, key, receipt.Build(order).Text(), "text/plain; charset=utf-8"); err != nil {
		logger.Error.Printf("failed to archive receipt of order %d: %v", order.ID, err)
		return
	}
	logger.Debug.Printf("archived receipt of order %d to %s/%s", order.ID, s.s3.GetBucketName(), key)
}
