package middleware

import (
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestInit tags every request with an id and logs it once it finishes.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		logger.Zap().Named("http").Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		)
	}
}

// ResponseInit installs the "send" closure handlers use to write a service response.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("send", func(r *types.Response) {
			if r == nil {
				r = helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError})
			}
			for k, v := range r.Headers {
				c.Header(k, v)
			}

			body := helper.ToResponseAPI(r)
			if r.Code >= http.StatusBadRequest {
				c.AbortWithStatusJSON(r.Code, body)
				return
			}
			c.JSON(r.Code, body)
		})

		c.Next()
	}
}
