package address

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/middleware"
	addressService "ecosync-hub/internal/service/address"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	addressService addressService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, addressService addressService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		addressService: addressService,
	}
}

func idParam(c *gin.Context, send func(r *types.Response)) (uint64, bool) {
	id, err := helper.StringToUint64(c.Param("id"))
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "Invalid address id", Error: err}))
		return 0, false
	}
	return id, true
}

// ListAddresses godoc
// @Summary      List my addresses
// @Tags         Addresses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  types.ResponseAPI{data=[]addressService.AddressResponse}
// @Router       /v1/addresses [get]
func (h *Handler) ListAddresses(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	send(h.addressService.ListAddresses(user))
}

// GetAddress godoc
// @Summary      Get one of my addresses
// @Tags         Addresses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Address ID"
// @Success      200  {object}  types.ResponseAPI{data=addressService.AddressResponse}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/addresses/{id} [get]
func (h *Handler) GetAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	id, ok := idParam(c, send)
	if !ok {
		return
	}
	send(h.addressService.GetAddress(user, id))
}

// CreateAddress godoc
// @Summary      Add an address
// @Description  address_type defaults to home and country to BANGLADESH. is_default clears the flag on the other addresses.
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      addressService.AddressRequest  true  "Address"
// @Success      201      {object}  types.ResponseAPI{data=addressService.AddressResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/addresses [post]
func (h *Handler) CreateAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	var req addressService.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "Invalid request body", Error: err}))
		return
	}

	send(h.addressService.CreateAddress(user, &req))
}

// UpdateAddress godoc
// @Summary      Update an address
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                            true  "Address ID"
// @Param        request  body      addressService.AddressRequest  true  "Address"
// @Success      200      {object}  types.ResponseAPI{data=addressService.AddressResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/addresses/{id} [put]
func (h *Handler) UpdateAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	id, ok := idParam(c, send)
	if !ok {
		return
	}

	var req addressService.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "Invalid request body", Error: err}))
		return
	}

	send(h.addressService.UpdateAddress(user, id, &req))
}

// DeleteAddress godoc
// @Summary      Delete an address
// @Tags         Addresses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Address ID"
// @Success      200  {object}  types.ResponseAPI
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/addresses/{id} [delete]
func (h *Handler) DeleteAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	id, ok := idParam(c, send)
	if !ok {
		return
	}
	send(h.addressService.DeleteAddress(user, id))
}
