package serverApp

import (
	"context"
	config "ecosync-hub/configs"
	"ecosync-hub/internal/pkg/api"
	database "ecosync-hub/internal/pkg/db"
	"ecosync-hub/internal/pkg/middleware"
	"ecosync-hub/internal/pkg/rabbitmq"
	"ecosync-hub/internal/pkg/redis"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"ecosync-hub/internal/repository"
	"net/http"

	addressHandler "ecosync-hub/internal/handler/address"
	checkoutHandler "ecosync-hub/internal/handler/checkout"
	orderHandler "ecosync-hub/internal/handler/order"
	paymentHandler "ecosync-hub/internal/handler/payment"
	addressService "ecosync-hub/internal/service/address"
	checkoutService "ecosync-hub/internal/service/checkout"
	orderService "ecosync-hub/internal/service/order"
	paymentService "ecosync-hub/internal/service/payment"

	"github.com/gin-gonic/gin"
)

// Services are the long-lived services the background workers also need.
type Services struct {
	Checkout *checkoutService.Service
	Payment  paymentService.IService
}

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	env *config.Config,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher rabbitmq.IPublisher,
	s3 s3aws.Is3,
) *Services {
	InitMiddleware(engine)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, Health(db, redisClient, rb))
	})

	e := engine.Group(BasePath())
	return InitRoutes(e, ctx, env, db, redisClient, publisher, s3)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

// Health reports each backing service. A nil broker means it is disabled.
func Health(db *database.Database, redisClient redis.IRedis, rb *rabbitmq.ConnectionManager) gin.H {
	status := func(ok bool) gin.H {
		if ok {
			return gin.H{"status": "healthy"}
		}
		return gin.H{"status": "unhealthy"}
	}

	rabbit := gin.H{"status": "disabled"}
	if rb != nil {
		rabbit = status(!rb.IsClosed())
	}

	return gin.H{
		"status": http.StatusOK,
		"service": gin.H{
			"rabbitmq": rabbit,
			"redis":    status(redisClient != nil && redisClient.Ping() == nil),
			"database": status(db != nil && !db.IsCloseConnection()),
		},
	}
}

func InitRoutes(
	e *gin.RouterGroup,
	ctx context.Context,
	env *config.Config,
	db *database.Database,
	redisClient redis.IRedis,
	publisher rabbitmq.IPublisher,
	s3 s3aws.Is3,
) *Services {
	// setup repo
	rp := repository.NewRepository(db)

	ordersAPI := api.New(api.Config{
		BaseURL:       env.OrdersAPIBaseURL,
		Timeout:       env.HTTPTimeout(),
		ProxyURL:      env.HTTPProxyURL,
		SkipTLSVerify: env.HTTPSkipTLSVerify,
	})

	// === Checkout ===
	CheckoutService := checkoutService.NewService(ctx, rp, redisClient, ordersAPI, checkoutService.Config{
		PaymentDelay:  env.PaymentDelay(),
		RedirectDelay: env.RedirectDelay(),
		CancelOnClose: env.CheckoutCancelOnClose,
		SessionTTL:    env.SessionTTL(),
		LockTTL:       env.PaymentDelay() + env.HTTPTimeout() + env.RedirectDelay(),
	})
	CheckoutHandler := checkoutHandler.NewHandler(ctx, CheckoutService)
	CheckoutHandler.NewRoutes(e)

	// === Orders ===
	OrderService := orderService.NewService(ctx, rp, redisClient, publisher, s3)
	OrderHandler := orderHandler.NewHandler(ctx, OrderService)
	OrderHandler.NewRoutes(e)

	// === Addresses ===
	AddressService := addressService.NewService(ctx, rp)
	AddressHandler := addressHandler.NewHandler(ctx, AddressService)
	AddressHandler.NewRoutes(e)

	// === Payment ===
	PaymentService := paymentService.NewService(ctx, rp, s3)
	PaymentHandler := paymentHandler.NewHandler(ctx, PaymentService, !env.AppEnv.RunsWorkers())
	PaymentHandler.NewRoutes(e)

	return &Services{
		Checkout: CheckoutService,
		Payment:  PaymentService,
	}
}
