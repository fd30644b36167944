package address

import (
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

func (s *Service) ListAddresses(user types.UserWithAuth) *types.Response {
	addresses, err := s.rp.Address.FindByUser(s.ctx, user.ID)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to fetch addresses", Error: err})
	}

	return helper.ParseResponse(&types.Response{
		Data: lo.Map(addresses, func(a models.Address, _ int) AddressResponse { return toAddressResponse(&a) }),
	})
}

func (s *Service) GetAddress(user types.UserWithAuth, id uint64) *types.Response {
	address, res := s.find(user, id)
	if res != nil {
		return res
	}
	return helper.ParseResponse(&types.Response{Data: toAddressResponse(address)})
}

func (s *Service) CreateAddress(user types.UserWithAuth, req *AddressRequest) *types.Response {
	address := &models.Address{UserID: user.ID}
	apply(address, req)

	if err := s.rp.Address.Create(s.ctx, address); err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to create address", Error: err})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Address created successfully",
		Data:    toAddressResponse(address),
	})
}

func (s *Service) UpdateAddress(user types.UserWithAuth, id uint64, req *AddressRequest) *types.Response {
	address, res := s.find(user, id)
	if res != nil {
		return res
	}
	apply(address, req)

	if err := s.rp.Address.Update(s.ctx, address); err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to update address", Error: err})
	}

	return helper.ParseResponse(&types.Response{
		Message: "Address updated successfully",
		Data:    toAddressResponse(address),
	})
}

func (s *Service) DeleteAddress(user types.UserWithAuth, id uint64) *types.Response {
	rows, err := s.rp.Address.Delete(s.ctx, id, user.ID)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to delete address", Error: err})
	}
	if rows == 0 {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Address not found"})
	}
	return helper.ParseResponse(&types.Response{Message: "Address deleted successfully"})
}

func (s *Service) find(user types.UserWithAuth, id uint64) (*models.Address, *types.Response) {
	address, err := s.rp.Address.FindByIDForUser(s.ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Address not found"})
		}
		return nil, helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to fetch address", Error: err})
	}
	return address, nil
}

func apply(a *models.Address, req *AddressRequest) {
	a.AddressType = lo.Ternary(req.AddressType == "", enum.ADDRESS_HOME, req.AddressType)
	a.FullName = strings.TrimSpace(req.FullName)
	a.Phone = strings.TrimSpace(req.Phone)
	a.HouseFlatNo = strings.TrimSpace(req.HouseFlatNo)
	a.RoadStreet = strings.TrimSpace(req.RoadStreet)
	a.AreaLocality = strings.TrimSpace(req.AreaLocality)
	a.PostOffice = strings.TrimSpace(req.PostOffice)
	a.ThanaUpazila = strings.TrimSpace(req.ThanaUpazila)
	a.District = strings.TrimSpace(req.District)
	a.Division = strings.TrimSpace(req.Division)
	a.PostalCode = strings.TrimSpace(req.PostalCode)
	a.Country = lo.Ternary(strings.TrimSpace(req.Country) == "", models.DefaultCountry, strings.ToUpper(strings.TrimSpace(req.Country)))
	a.IsDefault = req.IsDefault
}
