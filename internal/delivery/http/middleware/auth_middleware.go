package middleware

import (
	"errors"
	"strings"

	"alfred/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxReviewerIDKey = "reviewer_id"
	CtxRoleKey       = "role"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware admits any valid reviewer token. Pass roles to restrict it
// further, e.g. Middleware(jwt.RoleAdmin).
func (m *AuthMiddleware) Middleware(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok && websocketUpgrade(c) {
			// Browsers cannot set headers on a websocket handshake.
			token = strings.TrimSpace(c.Query("access_token"))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}

		c.Locals(CtxReviewerIDKey, claims.ReviewerID)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

// ReviewerID returns the authenticated reviewer, or "" on public routes.
func ReviewerID(c fiber.Ctx) string {
	id, _ := c.Locals(CtxReviewerIDKey).(string)
	return id
}

func websocketUpgrade(c fiber.Ctx) bool {
	return strings.EqualFold(c.Get("Upgrade"), "websocket")
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
