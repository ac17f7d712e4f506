package handler

import (
	"context"
	"time"

	"alfred/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes optional dependencies. A nil db means the service
// runs on in-process stores; a cache that fails to ping is reported as
// bypassed since ranking works without it.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	out := healthResponse{Database: "memory", Cache: "disabled"}
	status := fiber.StatusOK

	if h.db != nil {
		out.Database = "up"
		if err := h.db.Ping(ctx); err != nil {
			out.Database = "down"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		out.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			out.Cache = "bypassed"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", out)
	}
	return response.Success(c, status, response.MessageOK, out)
}
