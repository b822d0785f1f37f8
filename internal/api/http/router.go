package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vhu-platform/complaint-service/internal/api/http/handlers"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Categories     *handlers.CategoriesHandler
	Users          *handlers.UsersHandler
	Notifications  *handlers.NotificationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Put("/profile", cfg.AuthMiddleware.Handle, cfg.Auth.UpdateProfile)
	authGroup.Put("/password", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id/status", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Complaints.UpdateStatus)
	complaints.Put("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Assign)
	complaints.Post("/:id/respond", cfg.Complaints.AddResponse)
	complaints.Put("/:id/rate", cfg.Complaints.Rate)
	complaints.Delete("/:id", cfg.Complaints.Delete)

	categories := api.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("/", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Create)
	categories.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Update)
	categories.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Delete)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	users.Get("/staff", cfg.Users.ListStaff)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	notifications := api.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Put("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	api.Get("/dashboard/stats", cfg.AuthMiddleware.Handle, cfg.Dashboard.Stats)
}
