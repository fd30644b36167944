package address

import (
	"ecosync-hub/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	addresses := e.Group("/v1/addresses", middleware.AuthMiddleware())

	addresses.GET("", h.ListAddresses)
	addresses.POST("", h.CreateAddress)
	addresses.GET("/:id", h.GetAddress)
	addresses.PUT("/:id", h.UpdateAddress)
	addresses.DELETE("/:id", h.DeleteAddress)
}
