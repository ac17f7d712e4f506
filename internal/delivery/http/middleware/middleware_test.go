package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"alfred/internal/domain"
	"alfred/internal/pkg/jwt"
	"alfred/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, body io.Reader) response.SemanticResponse {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var env response.SemanticResponse
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestErrorMiddleware_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("%w: email is required", domain.ErrValidation), 400, "validation error: email is required"},
		{"invalid input", fmt.Errorf("%w: topN must be positive", domain.ErrInvalidInput), 400, ""},
		{"conflict", domain.ErrConflict, 409, "conflict"},
		{"state", domain.ErrState, 409, "illegal state transition"},
		{"not found", domain.ErrNotFound, 404, "not found"},
		{"external", domain.ExternalError("docs", errors.New("quota")), 502, response.MessageBadGateway},
		{"configuration", domain.ErrConfiguration, 500, response.MessageInternalServerError},
		{"app error", NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil), 403, "Forbidden"},
		{"fiber error", fiber.ErrMethodNotAllowed, 405, "Method Not Allowed"},
		{"unknown", errors.New("boom"), 500, response.MessageInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(NewErrorMiddleware(nil).Middleware())
			app.Get("/", func(c fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			env := decode(t, resp.Body)
			assert.Equal(t, tc.status, env.Status)
			if tc.message != "" {
				assert.Equal(t, tc.message, env.Message)
			}
		})
	}
}

func TestErrorMiddleware_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	app := fiber.New()
	app.Use(NewErrorMiddleware(zap.New(core)).Middleware())
	app.Get("/", func(c fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kaboom", entries[0].ContextMap()["panic"])
}

func TestAccessLog_SetsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zap.New(core)).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	rid := resp.Header.Get(HeaderRequestID)
	assert.NotEmpty(t, rid)

	entries := logs.FilterMessage("http access").All()
	require.Len(t, entries, 1)
	assert.Equal(t, rid, entries[0].ContextMap()["rid"])
	assert.EqualValues(t, 200, entries[0].ContextMap()["status"])
}

func newAuthApp(t *testing.T, roles ...string) (*fiber.App, *jwt.HMACService) {
	t.Helper()
	svc := jwt.NewHMACService("secret", time.Hour)

	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/", NewAuthMiddleware(svc).Middleware(roles...), func(c fiber.Ctx) error {
		return c.SendString(ReviewerID(c))
	})
	return app, svc
}

func TestAuthMiddleware(t *testing.T) {
	app, svc := newAuthApp(t)

	tok, err := svc.GenerateReviewerToken("rev-7", jwt.RoleReviewer)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "rev-7", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RoleRestriction(t *testing.T) {
	app, svc := newAuthApp(t, jwt.RoleAdmin)

	tok, err := svc.GenerateReviewerToken("rev-7", jwt.RoleReviewer)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc": true,
		"bearer abc": true,
		"Basic abc":  false,
		"Bearer":     false,
		"Bearer    ": false,
		"":           false,
	}
	for header, ok := range cases {
		_, got := bearerTokenFromHeader(header)
		assert.Equal(t, ok, got, header)
	}
}
