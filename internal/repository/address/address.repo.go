package address

import (
	"context"
	"ecosync-hub/internal/common/models"
	database "ecosync-hub/internal/pkg/db"

	"gorm.io/gorm"
)

type IRepository interface {
	FindByUser(ctx context.Context, userID uint64) ([]models.Address, error)
	FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id, userID uint64) (int64, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) FindByUser(ctx context.Context, userID uint64) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID, 0); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

func (r *Repository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
}

func (r *Repository) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	return res.RowsAffected, res.Error
}

func clearDefault(tx *gorm.DB, userID, exceptID uint64) error {
	q := tx.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}
