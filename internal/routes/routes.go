// Package routes wires repositories, services and handlers together and
// registers the HTTP routes.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"choreblimey/internal/handlers"
	"choreblimey/internal/middleware"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
	"choreblimey/internal/repositories/cache"
	"choreblimey/internal/services/gift"
	"choreblimey/internal/services/notification"
	"choreblimey/internal/services/settlement"
	walletsvc "choreblimey/internal/services/wallet"
)

// SetupRoutes builds the service graph and registers all routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.Service) {
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	giftRepo := repositories.NewGiftRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	var walletCache walletsvc.Cache = walletsvc.NoopCache{}
	var engineCache settlement.Cache = settlement.NoopCache{}
	if cacheService != nil {
		walletCache = cacheService
		engineCache = cacheService
	}

	walletService := walletsvc.NewService(
		db,
		walletRepo,
		ledgerRepo,
		walletCache,
		walletsvc.NewPrometheusCollector(registry),
	)
	giftService := gift.NewService(db, giftRepo, ledgerRepo, walletService)
	engine := settlement.NewEngine(
		db,
		walletRepo,
		ledgerRepo,
		giftRepo,
		payoutRepo,
		engineCache,
		notification.NewService(),
		settlement.NewPrometheusCollector(registry),
	)

	walletHandler := handlers.NewWalletHandler(walletService, engine)
	giftHandler := handlers.NewGiftHandler(giftService)
	payoutHandler := handlers.NewPayoutHandler(engine)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api", middleware.Auth)

	api.Get("/wallet/:childId", walletHandler.Get)
	api.Get("/wallet/:childId/transactions", walletHandler.Transactions)

	api.Post("/gifts", giftHandler.Create)
	api.Get("/gifts/pending/:childId", giftHandler.ListPending)

	payouts := api.Group("/payouts", middleware.RequireRole(models.RoleParent))
	payouts.Post("/", payoutHandler.Settle)
	payouts.Get("/", payoutHandler.List)
}
