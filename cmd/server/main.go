// Package main is the entry point for the wallet ledger service. It
// loads configuration, connects to Postgres and Redis, wires the
// service graph and starts the HTTP server.
package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"choreblimey/internal/config"
	"choreblimey/internal/logger"
	"choreblimey/internal/repositories"
	"choreblimey/internal/routes"
)

func main() {
	defer logger.Sync()

	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}
	logger.Info("connected to database")

	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			logger.Warn("failed to flush cache on startup", "error", err)
		}
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database connection", "error", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				logger.Warn("failed to close cache connection", "error", err)
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "choreblimey-wallet",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/payouts", limiter.New(limiter.Config{
		Max: config.GetIntEnv("PAYOUT_RATE_LIMIT", 30),
	}))

	routes.SetupRoutes(app, repositories.DB, repositories.CacheService)

	port := config.GetEnv("PORT", "8080")
	logger.Info("starting server", "port", port)
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
