package order

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/middleware"
	orderService "ecosync-hub/internal/service/order"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx          context.Context
	orderService orderService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, orderService orderService.IService) IHandler {
	return &Handler{
		ctx:          ctx,
		orderService: orderService,
	}
}

// CreateOrder godoc
// @Summary      Create an order
// @Description  Persists the order with its items and queues the simulated payment. A repeated Idempotency-Key returns the first order.
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                           false  "Client idempotency key"
// @Param        request          body      orderService.CreateOrderRequest  true   "Order"
// @Success      201              {object}  types.ResponseAPI{data=orderService.OrderResponse}
// @Success      200              {object}  types.ResponseAPI{data=orderService.OrderResponse}
// @Failure      400              {object}  types.ResponseAPI
// @Failure      409              {object}  types.ResponseAPI
// @Router       /v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	var req orderService.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: orderService.MessageOrderRequired,
			Error:   err,
		}))
		return
	}

	send(h.orderService.CreateOrder(user, c.GetHeader("Idempotency-Key"), &req))
}

// ListOrders godoc
// @Summary      List my orders
// @Tags         Orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  types.ResponseAPI{data=[]orderService.OrderResponse}
// @Router       /v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	send(h.orderService.ListOrders(user))
}

// GetOrder godoc
// @Summary      Get one of my orders
// @Tags         Orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  types.ResponseAPI{data=orderService.OrderResponse}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	id, err := helper.StringToUint64(c.Param("id"))
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "Invalid order id", Error: err}))
		return
	}

	send(h.orderService.GetOrder(user, id))
}

// GetReceipt godoc
// @Summary      Order receipt
// @Description  Items with line totals, BDT totals, free shipping and the archived receipt link once paid.
// @Tags         Orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  types.ResponseAPI{data=receipt.Receipt}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/orders/{id}/receipt [get]
func (h *Handler) GetReceipt(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	id, err := helper.StringToUint64(c.Param("id"))
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "Invalid order id", Error: err}))
		return
	}

	send(h.orderService.GetReceipt(user, id))
}
