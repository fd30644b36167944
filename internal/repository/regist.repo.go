package repository

import (
	database "ecosync-hub/internal/pkg/db"
	addressRepo "ecosync-hub/internal/repository/address"
	orderRepo "ecosync-hub/internal/repository/order"
	paymentRepo "ecosync-hub/internal/repository/payment"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Order   orderRepo.IRepository
	Payment paymentRepo.IRepository
	Address addressRepo.IRepository
}

func NewRepository(db *database.Database) *IRepository {
	return &IRepository{
		Order:   orderRepo.NewRepo(db),
		Payment: paymentRepo.NewRepo(db),
		Address: addressRepo.NewRepo(db),
	}
}
