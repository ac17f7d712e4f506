package routes

import (
	"alfred/internal/delivery/http/handler"
	"alfred/internal/delivery/http/middleware"
	"alfred/internal/metrics"
	"alfred/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health     *handler.HealthHandler
	Onboarding *handler.OnboardingHandler
	Assignment *handler.AssignmentHandler
	Members    *handler.MemberHandler
	WS         *ws.Handler
	Auth       *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	app.Get("/metrics", metrics.Handler())
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.WS == nil || r.Auth == nil {
		return
	}
	app.Get("/ws/admin", r.Auth.Middleware(), r.WS.HandleAdminWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r)
}
