package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/api/http/handlers"
	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Resumes        *handlers.ResumesHandler
	Comments       *handlers.CommentsHandler
	SessionGuard   *auth.SessionGuard
	RefreshGuard   *auth.RefreshGuard
	MetricsHandler fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", cfg.MetricsHandler)
	}

	api := app.Group("/api")
	api.Post("/sign-up", cfg.Auth.SignUp)
	api.Post("/sign-in", cfg.Auth.SignIn)
	api.Post("/token/refresh", cfg.RefreshGuard.Handle, cfg.Auth.Refresh)
	api.Post("/sign-out", cfg.Auth.SignOut)

	guard := cfg.SessionGuard.Handle

	api.Get("/users", guard, cfg.Users.Me)
	api.Patch("/users", guard, cfg.Users.UpdateMe)
	api.Get("/users/histories", guard, cfg.Users.MyHistory)

	api.Get("/resumes", cfg.Resumes.List)
	api.Get("/resumes/:resumeId", cfg.Resumes.Get)
	api.Post("/resumes", guard, cfg.Resumes.Create)
	api.Patch("/resumes/:resumeId", guard, cfg.Resumes.Update)
	api.Delete("/resumes/:resumeId", guard, cfg.Resumes.Delete)

	api.Get("/resumes/:resumeId/comments", cfg.Comments.List)
	api.Post("/resumes/:resumeId/comments", guard, cfg.Comments.Create)
	api.Patch("/resumes/:resumeId/comments/:commentId", guard, cfg.Comments.Update)
	api.Delete("/resumes/:resumeId/comments/:commentId", guard, cfg.Comments.Delete)

	admin := api.Group("/admin", guard, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users/:userId/histories", cfg.Users.UserHistory)
}
