// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"fxwallet/internal/handlers"
	"fxwallet/internal/middleware"
	"fxwallet/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Ledger       ledger.Service
	Rates        handlers.RateLister
	Auth         *middleware.AuthMiddleware
	HealthChecks map[string]handlers.CheckFunc
	// Registry is served at /metrics when set.
	Registry *prometheus.Registry
	// Observer records per-route request metrics when set.
	Observer middleware.RequestObserver
	// MutationsPerMinute caps money movement requests per caller. Zero disables the limit.
	MutationsPerMinute int
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Observer != nil {
		app.Use(middleware.RequestMetrics(deps.Observer))
	}

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	app.Get("/health", healthHandler.HealthCheck)

	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the FX Wallet API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	fxHandler := handlers.NewFxHandler(deps.Ledger, deps.Rates)
	fx := api.Group("/fx")
	fx.Get("/preview", fxHandler.PreviewConversion)
	fx.Get("/rates", fxHandler.GetRates)

	setupWalletRoutes(api, deps)
}

func setupWalletRoutes(router fiber.Router, deps Dependencies) {
	walletHandler := handlers.NewWalletHandler(deps.Ledger)

	wallets := router.Group("/wallets", deps.Auth.Handler)
	wallets.Post("/", walletHandler.OpenWallet)
	wallets.Get("/me", walletHandler.GetWallet)
	wallets.Get("/balance/:currency", walletHandler.GetBalance)

	mutations := []fiber.Handler{}
	if deps.MutationsPerMinute > 0 {
		mutations = append(mutations, mutationLimiter(deps.MutationsPerMinute))
	}
	wallets.Post("/fund", append(mutations, walletHandler.Fund)...)
	wallets.Post("/withdraw", append(mutations, walletHandler.Withdraw)...)
	wallets.Post("/trade", append(mutations, walletHandler.Trade)...)
	wallets.Post("/transfer", append(mutations, walletHandler.Transfer)...)
}

func mutationLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals("userID").(interface{ String() string }); ok {
				return id.String()
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	})
}
