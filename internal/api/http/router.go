package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-booking/internal/api/http/handlers"
	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoriesHandler
	Events         *handlers.EventsHandler
	Bookings       *handlers.BookingsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Public surface.
	api.Get("/categories", cfg.Categories.List)
	api.Get("/events", cfg.Events.List)
	api.Get("/events/:id", cfg.Events.Get)
	api.Get("/events/:id/ticket-types", cfg.Events.ListTicketTypes)
	api.Post("/auth/session", cfg.Auth.ExchangeSession)
	api.Post("/webhook/payment", cfg.Bookings.PaymentWebhook)

	// Authenticated surface.
	authed := api.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/auth/me", cfg.Auth.Me)
	authed.Post("/auth/logout", cfg.Auth.Logout)
	authed.Patch("/auth/select-role", cfg.Auth.SelectRole)

	authed.Post("/events", cfg.Events.Create)
	authed.Put("/events/:id", cfg.Events.Update)
	authed.Delete("/events/:id", cfg.Events.Delete)
	authed.Get("/events/my-events/list", cfg.Events.MyEvents)
	authed.Post("/events/:id/ticket-types", cfg.Events.CreateTicketType)

	authed.Post("/bookings", cfg.Bookings.Create)
	authed.Post("/bookings/checkout", cfg.Bookings.Checkout)
	authed.Get("/bookings/payment-status/:session_id", cfg.Bookings.PaymentStatus)
	authed.Get("/bookings/my-bookings/list", cfg.Bookings.MyBookings)
	authed.Get("/bookings/:id/qr", cfg.Bookings.QR)

	admin := authed.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.Users)
	admin.Patch("/users/:id/role", cfg.Admin.ChangeRole)
}
