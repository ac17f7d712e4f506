package app

import (
	"context"
	"fmt"
	"strings"

	"alfred/internal/config"
	"alfred/internal/delivery/http/handler"
	"alfred/internal/delivery/http/middleware"
	"alfred/internal/delivery/http/routes"
	"alfred/internal/metrics"
	"alfred/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and HTTP app. The websocket hub runs until
// ctx is cancelled.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	go c.Hub.Run(ctx)

	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(metrics.Middleware)
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var db handler.Pinger
	if c.DB != nil {
		db = c.DB
	}

	reg := &routes.Registry{
		Health:     handler.NewHealthHandler(db, c.Cache),
		Onboarding: handler.NewOnboardingHandler(c.Onboarding),
		Assignment: handler.NewAssignmentHandler(c.Assignment),
		Members:    handler.NewMemberHandler(c.MemberUC),
		WS:         ws.NewHandler(c.Hub, c.Logger),
		Auth:       middleware.NewAuthMiddleware(c.JWT),
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
