package models

import (
	"ecosync-hub/internal/common/enum"
	"time"
)

type Payment struct {
	ID              uint64                 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         uint64                 `json:"order_id" gorm:"not null;uniqueIndex"`
	PaymentIntentID string                 `json:"payment_intent_id" gorm:"type:varchar(100);not null"`
	Amount          float64                `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency        string                 `json:"currency" gorm:"type:varchar(3);not null;default:'BDT'"`
	Status          enum.PaymentStatusEnum `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod   string                 `json:"payment_method" gorm:"type:varchar(30);not null;default:'card'"`
	CreatedAt       time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
