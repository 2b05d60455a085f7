package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-leads-service/internal/api/http/handlers"
	"github.com/spec-kit/buyer-leads-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Buyers         *handlers.BuyersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	buyers := app.Group("/buyers")
	buyers.Get("/", cfg.Buyers.List)
	buyers.Get("/export", cfg.Buyers.Export)
	buyers.Get("/:id", cfg.Buyers.Get)

	protected := buyers.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/", cfg.Buyers.Create)
	protected.Post("/import", cfg.Buyers.Import)
	protected.Patch("/:id", cfg.Buyers.Update)
	protected.Delete("/:id", cfg.Buyers.Delete)
}
