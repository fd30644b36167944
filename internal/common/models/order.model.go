package models

import (
	"ecosync-hub/internal/common/enum"
	"time"
)

type Order struct {
	ID              uint64               `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64               `json:"user_id" gorm:"not null;index"`
	TotalAmount     float64              `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	ShippingAddress string               `json:"shipping_address" gorm:"type:text"`
	Status          enum.OrderStatusEnum `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentIntentID string               `json:"payment_intent_id,omitempty" gorm:"type:varchar(100)"`
	Items           []OrderItem          `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment         *Payment             `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// PaymentStatus is the status of the order's payment row, pending when none exists.
func (o *Order) PaymentStatus() enum.PaymentStatusEnum {
	if o.Payment == nil || o.Payment.Status == "" {
		return enum.PAYMENT_PENDING
	}
	return o.Payment.Status
}

type OrderItem struct {
	ID        uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `json:"order_id" gorm:"not null;index"`
	ProductID uint64  `json:"product_id" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
