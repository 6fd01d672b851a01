package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/api/http/handlers"
	"github.com/24BytesCo/workitem-service/internal/auth"
	"github.com/24BytesCo/workitem-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Catalogs       *handlers.CatalogsHandler
	WorkItems      *handlers.WorkItemsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/register", auth.RequireRole(domain.RoleAdmin), cfg.Auth.Register)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleSupervisor))
	users.Get("/", cfg.Users.List)
	users.Get("/search", cfg.Users.Search)
	users.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Update)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	catalogs := app.Group("", cfg.AuthMiddleware.Handle)
	catalogs.Get("/roles", cfg.Catalogs.Roles)
	catalogs.Get("/work-item-statuses", cfg.Catalogs.Statuses)

	items := app.Group("/work-items", cfg.AuthMiddleware.Handle)
	items.Post("/", cfg.WorkItems.Create)
	items.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), cfg.WorkItems.List)
	items.Get("/mine", cfg.WorkItems.ListMine)
	items.Get("/search", cfg.WorkItems.Search)
	items.Get("/:id", cfg.WorkItems.Get)
	items.Put("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), cfg.WorkItems.Update)
	items.Patch("/:id/assignment", auth.RequireRole(domain.RoleAdmin), cfg.WorkItems.UpdateAssignment)
	items.Patch("/:id/status", cfg.WorkItems.UpdateMyStatus)
	items.Delete("/:id", cfg.WorkItems.Delete)
}
