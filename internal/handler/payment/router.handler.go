package payment

import (
	"ecosync-hub/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	payments := e.Group("/v1/payments", middleware.AuthMiddleware())

	payments.GET("/:order_id", h.CheckStatus)
	if h.allowConfirm {
		payments.POST("/:order_id/confirm", h.Confirm)
	}
}
