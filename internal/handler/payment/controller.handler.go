package payment

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/middleware"
	paymentService "ecosync-hub/internal/service/payment"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	paymentService paymentService.IService
	allowConfirm   bool
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

// NewHandler builds the payment routes. allowConfirm exposes the manual
// confirmation endpoint, used when no order.created worker runs.
func NewHandler(ctx context.Context, paymentService paymentService.IService, allowConfirm bool) IHandler {
	return &Handler{
		ctx:            ctx,
		paymentService: paymentService,
		allowConfirm:   allowConfirm,
	}
}

// CheckStatus godoc
// @Summary      Check payment status
// @Description  Status of the simulated payment of one of the caller's orders
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      int  true  "Order ID"
// @Success      200       {object}  types.ResponseAPI{data=paymentService.PaymentStatusResponse}
// @Failure      400       {object}  types.ResponseAPI
// @Failure      404       {object}  types.ResponseAPI
// @Router       /v1/payments/{order_id} [get]
func (h *Handler) CheckStatus(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	orderID, err := helper.StringToUint64(c.Param("order_id"))
	if err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "order_id is required",
			Error:   err,
		}))
		return
	}

	send(h.paymentService.GetPaymentStatus(user, orderID))
}

// Confirm godoc
// @Summary      Confirm a payment now
// @Description  Runs the simulated confirmation inline. Only registered when background workers are off.
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      int  true  "Order ID"
// @Success      200       {object}  types.ResponseAPI{data=paymentService.PaymentStatusResponse}
// @Failure      404       {object}  types.ResponseAPI
// @Router       /v1/payments/{order_id}/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	orderID, err := helper.StringToUint64(c.Param("order_id"))
	if err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "order_id is required",
			Error:   err,
		}))
		return
	}

	send(h.paymentService.ConfirmOrder(user, orderID))
}
