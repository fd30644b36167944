package address

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/repository"
)

type Service struct {
	ctx context.Context
	rp  *repository.IRepository
}

type IService interface {
	ListAddresses(user types.UserWithAuth) *types.Response
	GetAddress(user types.UserWithAuth, id uint64) *types.Response
	CreateAddress(user types.UserWithAuth, req *AddressRequest) *types.Response
	UpdateAddress(user types.UserWithAuth, id uint64, req *AddressRequest) *types.Response
	DeleteAddress(user types.UserWithAuth, id uint64) *types.Response
}

func NewService(ctx context.Context, rp *repository.IRepository) IService {
	return &Service{
		ctx: ctx,
		rp:  rp,
	}
}

type AddressRequest struct {
	AddressType  enum.AddressTypeEnum `json:"address_type" binding:"omitempty,enum"`
	FullName     string               `json:"full_name" binding:"required"`
	Phone        string               `json:"phone"`
	HouseFlatNo  string               `json:"house_flat_no" binding:"required"`
	RoadStreet   string               `json:"road_street"`
	AreaLocality string               `json:"area_locality"`
	PostOffice   string               `json:"post_office"`
	ThanaUpazila string               `json:"thana_upazila" binding:"required"`
	District     string               `json:"district" binding:"required"`
	Division     string               `json:"division"`
	PostalCode   string               `json:"postal_code" binding:"required"`
	Country      string               `json:"country"`
	IsDefault    bool                 `json:"is_default"`
}

// AddressResponse adds the formatted shipping string the cart hands to checkout.
type AddressResponse struct {
	models.Address
	Formatted string `json:"formatted"`
}

func toAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{Address: *a, Formatted: a.Format()}
}
