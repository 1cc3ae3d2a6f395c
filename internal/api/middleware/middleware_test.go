package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "zeniverse_api/internal/api/base/models"
	"zeniverse_api/internal/common"
)

type stubAuth map[string]*basemodels.Principal

func (s stubAuth) Authenticate(_ context.Context, token string) (*basemodels.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, common.ErrTokenInvalid
}

func newApp(mws ...fiber.Handler) *fiber.App {
	app := fiber.New()
	group := app.Group("/secure")
	for _, mw := range mws {
		group.Use(mw)
	}
	group.Get("/", func(c fiber.Ctx) error {
		return c.SendString(PrincipalFrom(c).Username)
	})
	return app
}

func envelopeOf(t *testing.T, app *fiber.App, token string) (int, common.Envelope) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env common.Envelope
	if resp.StatusCode != fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuth{
		"admin-token": {ID: primitive.NewObjectID(), Username: "editor", Role: basemodels.RoleAdmin},
		"root-token":  {ID: primitive.NewObjectID(), Username: "root", Role: basemodels.RoleSuperAdmin},
	}

	app := newApp(AuthMiddleware(auth), RequireAdmin())

	status, env := envelopeOf(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, common.ErrCodeAuthToken.Code, env.Response.ErrorCode)

	status, _ = envelopeOf(t, app, "Basic abc")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = envelopeOf(t, app, "Bearer nope")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = envelopeOf(t, app, "Bearer admin-token")
	assert.Equal(t, fiber.StatusOK, status)

	superOnly := newApp(AuthMiddleware(auth), RequireSuperAdmin())
	status, env = envelopeOf(t, superOnly, "Bearer admin-token")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, fiber.StatusForbidden, env.Response.ResponseCode)

	status, _ = envelopeOf(t, superOnly, "bearer root-token")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	app := newApp(RequireAdmin())
	status, _ := envelopeOf(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
