package main

import (
	"context"
	config "ecosync-hub/configs"
	"ecosync-hub/internal/common/enum"
	database "ecosync-hub/internal/pkg/db"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/rabbitmq"
	"ecosync-hub/internal/pkg/redis"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"ecosync-hub/internal/pkg/validation"
	serverApp "ecosync-hub/internal/server"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title           EcoSync Hub Checkout API
// @version         1.0
// @description     Checkout flow, orders, address book and simulated payment confirmation for the EcoSync Hub storefront

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @BasePath        /api
func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, cacheClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env, cacheClient)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup S3 (optional)
	s3, err := setupS3(ctx, env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up S3", err)
		cancel()
		return
	}

	// Setup Server
	setupServer(&config.SetupServerDto{
		Rds:    redisClient,
		Env:    env,
		Ctx:    &ctx,
		Cancel: cancel,
		Db:     db,
		Wg:     &wg,
		Rb:     rabbit,
		S3:     s3,
	})
}

// setupRedis returns the client services use and, when it is a real server,
// the raw client for the gorm query cache. Local runs fall back to memory.
func setupRedis(ctx context.Context, env *config.Config) (redis.IRedis, *redis.Client, error) {
	client, err := redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
	if err != nil {
		if env.AppEnv == enum.LOCAL {
			logger.Warning.Println("Redis unavailable, using in-memory store:", err)
			return redis.NewMemory(), nil, nil
		}
		return nil, nil, err
	}
	return client, client, nil
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	cm, err := rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
	if err != nil && env.AppEnv == enum.LOCAL {
		logger.Warning.Println("RabbitMQ unavailable, events disabled:", err)
		return nil, nil
	}
	return cm, err
}

func setupDB(env *config.Config, cacheClient *redis.Client) (*database.Database, error) {
	return database.Setup(&database.Config{
		Host:      env.DBHost,
		Port:      env.DBPort,
		User:      env.DBUser,
		Password:  env.DBPass,
		Database:  env.DBName,
		SSLMode:   "disable",
		Driver:    database.DriverEnum(env.DBDriver),
		Cache:     env.DBCache,
		Rds:       cacheClient,
		CacheTime: time.Duration(env.DBCacheSecond) * time.Second,
	})
}

func setupS3(ctx context.Context, env *config.Config, rds redis.IRedis) (s3aws.Is3, error) {
	if env.AWSBucketName == "" {
		logger.Info.Println("AWS_BUCKET_NAME not set, receipt archive disabled")
		return nil, nil
	}
	return s3aws.NewS3Client(ctx, s3aws.S3Config{
		AWSRegion:          env.AWSRegion,
		AWSAccessKeyID:     env.AWSAccessKeyID,
		AWSSecretAccessKey: env.AWSSecretAccessKey,
		Endpoint:           env.AWSEndpoint,
	}, env.AWSBucketName, rds)
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db
	s3 := payload.S3

	var publisher rabbitmq.IPublisher = rabbitmq.NoopPublisher{}
	if rb != nil {
		p, err := rabbitmq.NewPublisher(*ctx, rb)
		if err != nil {
			panic(err)
		}
		defer p.Close()
		publisher = p
	}

	defer func() {
		cancel()
		wg.Wait()
		if rb != nil {
			_ = rb.Close()
		}
		if rds != nil {
			_ = rds.Close()
		}
		if db != nil {
			_ = db.Close()
		}
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if env.AppEnv == enum.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.Default()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.AppPort),
		Handler: e,
	}

	services := serverApp.Setup(e, *ctx, env, db, rds, rb, publisher, s3)

	var workerRb *rabbitmq.ConnectionManager
	if env.AppEnv.RunsWorkers() {
		workerRb = rb
	}
	pool, err := serverApp.InitWorker(*ctx, wg, workerRb, services)
	if err != nil {
		logger.Error.Println("Failed to start workers:", err)
	}
	if pool != nil {
		defer pool.Release()
	}

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
