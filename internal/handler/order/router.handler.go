package order

import (
	"ecosync-hub/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	orders := e.Group("/v1/orders", middleware.AuthMiddleware())

	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/receipt", h.GetReceipt)
}
