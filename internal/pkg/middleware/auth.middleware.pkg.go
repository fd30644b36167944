package middleware

import (
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/jwt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AuthKey  = "auth"
	TokenKey = "token"
)

// AuthMiddleware verifies the bearer token and stores the caller under "auth".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *types.Response))

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token := helper.BearerToken(header)
		if token == "" || strings.EqualFold(token, "bearer") {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "Access token required"}))
			return
		}

		user, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusForbidden, Message: "Invalid or expired token", Error: err}))
			return
		}

		c.Set(AuthKey, *user)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// AuthFromContext returns the caller stored by AuthMiddleware.
func AuthFromContext(c *gin.Context) (types.UserWithAuth, string, bool) {
	user, ok := c.Get(AuthKey)
	if !ok {
		return types.UserWithAuth{}, "", false
	}
	auth, ok := user.(types.UserWithAuth)
	return auth, c.GetString(TokenKey), ok
}
