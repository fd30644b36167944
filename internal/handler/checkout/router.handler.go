package checkout

import (
	"ecosync-hub/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	sessions := e.Group("/v1/checkout/sessions", middleware.AuthMiddleware())

	sessions.POST("", h.StartCheckout)
	sessions.GET("/:id", h.GetSession)
	sessions.POST("/:id/pay", h.SubmitPayment)
	sessions.DELETE("/:id", h.CloseSession)
}
