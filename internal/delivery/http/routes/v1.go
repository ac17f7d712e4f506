package routes

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, reg *Registry) {
	if r == nil || reg == nil {
		return
	}

	if reg.Onboarding != nil {
		reg.Onboarding.RegisterPublicRoutes(r)
	}

	if reg.Auth == nil {
		return
	}
	protected := r.Group("", reg.Auth.Middleware())

	if reg.Onboarding != nil {
		reg.Onboarding.RegisterRoutes(protected)
	}
	if reg.Assignment != nil {
		reg.Assignment.RegisterRoutes(protected)
	}
	if reg.Members != nil {
		reg.Members.RegisterRoutes(protected)
	}
}
