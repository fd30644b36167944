package order

import (
	"context"
	"ecosync-hub/internal/common/models"
	database "ecosync-hub/internal/pkg/db"

	"gorm.io/gorm"
)

type IRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID uint64) ([]models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Order, error)
	FindByID(ctx context.Context, id uint64) (*models.Order, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

// CreateWithItems inserts the order and its items in one transaction.
func (r *Repository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
}

func (r *Repository) FindByUser(ctx context.Context, userID uint64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
