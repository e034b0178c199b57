package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/http/handlers"
	"github.com/simplificateurs/advisory-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Team              *handlers.TeamHandler
	Posts             *handlers.PostsHandler
	Appointments      *handlers.AppointmentsHandler
	Auth              *handlers.AuthHandler
	AdminTeam         *handlers.AdminTeamHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/team", cfg.Team.List)
	app.Get("/team/:slug", cfg.Team.GetBySlug)
	app.Get("/posts", cfg.Posts.List)
	app.Get("/posts/:slug", cfg.Posts.GetBySlug)
	app.Post("/appointments", cfg.Appointments.Submit)

	authGroup := app.Group("/auth")
	authGroup.Post("/setup-admin", cfg.Auth.SetupAdmin)
	authGroup.Post("/login", cfg.Auth.Login)

	authed := authGroup.Group("", cfg.SessionMiddleware.Handle)
	authed.Post("/logout", cfg.Auth.Logout)
	authed.Get("/session", cfg.Auth.Session)
	authed.Post("/password/change", cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.SessionMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/team-members", cfg.AdminTeam.Create)
	admin.Put("/team-members/:id", cfg.AdminTeam.Update)
	admin.Delete("/team-members/:id", cfg.AdminTeam.Delete)
	admin.Post("/team-members/:id/photo", cfg.AdminTeam.UploadPhoto)
	admin.Get("/appointments", cfg.Appointments.List)
}
