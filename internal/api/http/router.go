package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/email-platform/internal/api/http/handlers"
	"github.com/spec-kit/email-platform/internal/auth"
	"github.com/spec-kit/email-platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	Documents      *handlers.DocumentsHandler
	Organizations  *handlers.OrganizationsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/password/reset-request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protectedAuth.Post("/password/change", cfg.Auth.ChangePassword)
	protectedAuth.Get("/me", cfg.Auth.Me)

	accounts := app.Group("/accounts", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	accounts.Post("", cfg.Accounts.Link)
	accounts.Get("", cfg.Accounts.List)
	accounts.Get("/:id", cfg.Accounts.Get)
	accounts.Put("/:id", cfg.Accounts.Update)
	accounts.Delete("/:id", cfg.Accounts.Unlink)
	accounts.Get("/:id/emails", cfg.Accounts.ListEmails)

	documents := app.Group("/documents", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	documents.Get("", cfg.Documents.List)
	documents.Get("/:id", cfg.Documents.Get)
	documents.Delete("/:id", cfg.Documents.Delete)

	organizations := app.Group("/organizations", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	organizations.Post("", cfg.Organizations.Create)
	organizations.Get("", cfg.Organizations.List)
	organizations.Get("/:id", cfg.Organizations.Get)
	organizations.Put("/:id", cfg.Organizations.Update)
}
