// Package repositories provides the data access layer. It owns the
// Postgres connection, schema migration, and the gorm repositories for
// wallets, the transaction ledger, gifts and payouts.
package repositories

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"choreblimey/internal/config"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories/cache"
)

// DB is the shared database handle, set by InitDB at startup and passed
// into services from the wiring layer.
var DB *gorm.DB

// CacheService is the shared redis-backed cache, set by InitDB.
var CacheService *cache.Service

// InitDB connects to Postgres, configures the connection pool, runs
// schema migration and initialises the redis cache.
func InitDB() error {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_USER", "postgres"),
		config.GetEnv("DB_PASSWORD", "postgres"),
		config.GetEnv("DB_NAME", "choreblimey"),
		config.GetEnv("DB_PORT", "5432"),
		config.GetEnv("DB_SSLMODE", "disable"),
	)

	logLevel := gormlogger.Warn
	if config.IsProduction() {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	CacheService = cache.NewService(redisClient, config.GetDurationEnv("CACHE_TTL", 5*time.Minute))

	return nil
}

// Migrate applies the schema for the four ledger tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Wallet{},
		&models.Transaction{},
		&models.Gift{},
		&models.Payout{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
