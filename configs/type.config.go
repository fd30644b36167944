package config

import (
	"context"
	"ecosync-hub/internal/common/enum"
	database "ecosync-hub/internal/pkg/db"
	"ecosync-hub/internal/pkg/rabbitmq"
	"ecosync-hub/internal/pkg/redis"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"sync"
	"time"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv        enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort       int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL    string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	JWTSecret     string       `env:"JWT_SECRET" envDefault:""`
	RedisHost     string       `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int          `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string       `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string       `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int          `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitHost    string       `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort    int          `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser    string       `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass    string       `env:"RABBIT_PASS" envDefault:"guest"`
	DBDriver      string       `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost        string       `env:"DB_HOST" envDefault:"localhost"`
	DBPort        int          `env:"DB_PORT" envDefault:"5432"`
	DBUser        string       `env:"DB_USER" envDefault:"postgres"`
	DBPass        string       `env:"DB_PASS" envDefault:""`
	DBName        string       `env:"DB_NAME" envDefault:"ecosync"`
	DBCache       bool         `env:"DB_CACHE" envDefault:"false"`
	DBCacheSecond int          `env:"DB_CACHE_SECONDS" envDefault:"60"`

	// Outbound storefront API used by the checkout flow
	OrdersAPIBaseURL  string `env:"ORDERS_API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	HTTPClientTimeout int    `env:"HTTP_CLIENT_TIMEOUT" envDefault:"30"`
	HTTPProxyURL      string `env:"HTTP_PROXY_URL" envDefault:""`
	HTTPSkipTLSVerify bool   `env:"HTTP_SKIP_TLS_VERIFY" envDefault:"false"`

	CheckoutPaymentDelayMS  int  `env:"CHECKOUT_PAYMENT_DELAY_MS" envDefault:"2000"`
	CheckoutRedirectDelayMS int  `env:"CHECKOUT_REDIRECT_DELAY_MS" envDefault:"2000"`
	CheckoutCancelOnClose   bool `env:"CHECKOUT_CANCEL_ON_CLOSE" envDefault:"false"`
	CheckoutSessionTTLMin   int  `env:"CHECKOUT_SESSION_TTL_MINUTES" envDefault:"30"`

	// Receipt archive, disabled when the bucket is empty
	AWSRegion          string `env:"AWS_REGION" envDefault:"ap-southeast-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" envDefault:""`
	AWSEndpoint        string `env:"AWS_ENDPOINT" envDefault:""`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPClientTimeout) * time.Second
}

func (c *Config) PaymentDelay() time.Duration {
	return time.Duration(c.CheckoutPaymentDelayMS) * time.Millisecond
}

func (c *Config) RedirectDelay() time.Duration {
	return time.Duration(c.CheckoutRedirectDelayMS) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.CheckoutSessionTTLMin) * time.Minute
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Db     *database.Database
	Rds    redis.IRedis
	Rb     *rabbitmq.ConnectionManager
	S3     s3aws.Is3
}
