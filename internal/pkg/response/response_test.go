package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/created", func(c fiber.Ctx) error {
		c.Set(headerRequestID, "rid-1")
		return Success(c, fiber.StatusCreated, "", map[string]int{"n": 1})
	})
	app.Get("/bad-status", func(c fiber.Ctx) error {
		return Error(c, 999, "", nil)
	})
	app.Get("/custom", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusConflict, "already pending", nil)
	})

	cases := []struct {
		path    string
		status  int
		message string
		rid     string
	}{
		{"/created", fiber.StatusCreated, MessageOK, "rid-1"},
		{"/bad-status", fiber.StatusInternalServerError, MessageInternalServerError, ""},
		{"/custom", fiber.StatusConflict, "already pending", ""},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var env SemanticResponse
		require.NoError(t, json.Unmarshal(body, &env))
		assert.Equal(t, tc.status, env.Status, tc.path)
		assert.Equal(t, tc.message, env.Message, tc.path)
		assert.Equal(t, tc.rid, env.RequestID, tc.path)
	}
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MessageConflict, DefaultMessage(fiber.StatusConflict))
	assert.Equal(t, MessageBadGateway, DefaultMessage(fiber.StatusBadGateway))
	assert.Equal(t, MessageServiceUnavailable, DefaultMessage(fiber.StatusServiceUnavailable))
	assert.Equal(t, MessageError, DefaultMessage(fiber.StatusTeapot))
}
