package checkout

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/middleware"
	checkoutService "ecosync-hub/internal/service/checkout"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
	}
}

// StartCheckout godoc
// @Summary      Start a checkout session
// @Description  Takes the cart snapshot and prepares a server-side checkout flow. A cart without total or items answers 303 with redirect_to /cart.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      checkoutService.StartCheckoutRequest  true  "Checkout context"
// @Success      201      {object}  types.ResponseAPI{data=checkoutService.SessionView}
// @Success      303      {object}  types.ResponseAPI
// @Failure      400      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/checkout/sessions [post]
func (h *Handler) StartCheckout(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, token, _ := middleware.AuthFromContext(c)

	var req checkoutService.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.StartCheckout(user, token, &req))
}

// SubmitPayment godoc
// @Summary      Pay for a checkout session
// @Description  Simulates the payment delay and creates the order. Answers 409 while a submission is in flight and 402 with the failure message when order creation fails.
// @Tags         Checkout
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.SessionView}
// @Failure      402  {object}  types.ResponseAPI{data=checkoutService.SessionView}
// @Failure      404  {object}  types.ResponseAPI
// @Failure      409  {object}  types.ResponseAPI
// @Router       /v1/checkout/sessions/{id}/pay [post]
func (h *Handler) SubmitPayment(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, token, _ := middleware.AuthFromContext(c)

	send(h.checkoutService.SubmitPayment(user, token, c.Param("id")))
}

// GetSession godoc
// @Summary      Get a checkout session
// @Tags         Checkout
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.SessionView}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/checkout/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	send(h.checkoutService.GetSession(user, c.Param("id")))
}

// CloseSession godoc
// @Summary      Leave a checkout session
// @Description  Cancels a pending redirect and discards the session.
// @Tags         Checkout
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/checkout/sessions/{id} [delete]
func (h *Handler) CloseSession(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, _, _ := middleware.AuthFromContext(c)

	send(h.checkoutService.CloseSession(user, c.Param("id")))
}
