package database

import (
	"ecosync-hub/internal/pkg/redis"
	"fmt"
	"time"

	"github.com/go-gorm/caches/v4"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	_logger "gorm.io/gorm/logger"
)

type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSLMode   string
	Driver    DriverEnum
	Cache     bool
	Rds       *redis.Client
	CacheTime time.Duration
	LogLevel  _logger.LogLevel
}

type Database struct {
	*gorm.DB
	Config *Config
}

func Setup(cfg *Config) (*Database, error) {
	var db *gorm.DB
	var err error

	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = _logger.Silent
	}

	gormConfig := &gorm.Config{
		Logger: _logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case POSTGRES:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Database,
			cfg.Port,
			cfg.SSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)

	case MYSQL:
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql)", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Cache {
		if err := db.Use(newCachesPlugin(cfg)); err != nil {
			return nil, fmt.Errorf("failed to register cache plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Database{
		db,
		cfg,
	}, nil
}

func newCachesPlugin(cfg *Config) *caches.Caches {
	if cfg.Rds != nil && cfg.CacheTime > 0 {
		return &caches.Caches{Conf: &caches.Config{
			Easer: true,
			Cacher: &redisCacher{
				rdb:       cfg.Rds.Client,
				cacheTime: cfg.CacheTime,
			},
		}}
	}
	return &caches.Caches{Conf: &caches.Config{
		Easer:  true,
		Cacher: &memoryCacher{},
	}}
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// IsCloseConnection reports whether the pool can no longer reach the server.
func (db *Database) IsCloseConnection() bool {
	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB == nil {
		return true
	}
	return sqlDB.Ping() != nil
}
