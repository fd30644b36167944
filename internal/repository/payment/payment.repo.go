package payment

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	database "ecosync-hub/internal/pkg/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IRepository interface {
	FindByOrderID(ctx context.Context, orderID uint64) (*models.Payment, error)
	Confirm(ctx context.Context, payment *models.Payment) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID uint64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Confirm upserts the payment row on order_id and marks the order paid in the same transaction.
func (r *Repository) Confirm(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payment_intent_id", "amount", "currency", "status", "payment_method", "updated_at"}),
		}).Create(payment).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Order{}).
			Where("id = ?", payment.OrderID).
			Updates(map[string]any{
				"status":            enum.ORDER_PAID,
				"payment_intent_id": payment.PaymentIntentID,
			}).Error
	})
}
