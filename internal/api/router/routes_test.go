package router

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "zeniverse_api/internal/api/base/models"
	"zeniverse_api/internal/common"
)

type echoHandler struct{}

func reply(name string) fiber.Handler {
	return func(c fiber.Ctx) error { return c.SendString(name) }
}

func (echoHandler) HandleList(c fiber.Ctx) error          { return reply("list")(c) }
func (echoHandler) HandleGetActive(c fiber.Ctx) error     { return reply("active:" + c.Params("type"))(c) }
func (echoHandler) HandleGetBySlug(c fiber.Ctx) error     { return reply("slug")(c) }
func (echoHandler) HandleGetByID(c fiber.Ctx) error       { return reply("id")(c) }
func (echoHandler) HandleCreate(c fiber.Ctx) error        { return reply("create")(c) }
func (echoHandler) HandleUpdate(c fiber.Ctx) error        { return reply("update")(c) }
func (echoHandler) HandleTogglePublish(c fiber.Ctx) error { return reply("toggle")(c) }
func (echoHandler) HandleDelete(c fiber.Ctx) error        { return reply("delete")(c) }

type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, token string) (*basemodels.Principal, error) {
	if token == "good" {
		return &basemodels.Principal{ID: primitive.NewObjectID(), Username: "editor", Role: basemodels.RoleAdmin}, nil
	}
	return nil, common.ErrTokenInvalid
}

func request(t *testing.T, app *fiber.App, method, target string, authed bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestRegisterCRUDRoutesGuardsWritesOnly(t *testing.T) {
	app := fiber.New()
	err := SetupRoutes(app, Options{Auth: tokenAuth{}, ContentWriteAuthRequired: true}, func(v1 fiber.Router, r *Router) error {
		r.RegisterCRUDRoutes(v1, "/contents", echoHandler{}, SlotPerTypeConfig, r.ContentWriters())
		return nil
	})
	require.NoError(t, err)

	id := primitive.NewObjectID().Hex()

	status, body := request(t, app, fiber.MethodGet, "/api/v1/contents", false)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "list", body)

	_, body = request(t, app, fiber.MethodGet, "/api/v1/contents/active/faq", false)
	assert.Equal(t, "active:faq", body)

	_, body = request(t, app, fiber.MethodGet, "/api/v1/contents/slug/hello", false)
	assert.Equal(t, "slug", body)

	_, body = request(t, app, fiber.MethodGet, "/api/v1/contents/"+id, false)
	assert.Equal(t, "id", body)

	for _, tc := range []struct{ method, path, want string }{
		{fiber.MethodPost, "/api/v1/contents", "create"},
		{fiber.MethodPut, "/api/v1/contents/" + id, "update"},
		{fiber.MethodPatch, "/api/v1/contents/" + id + "/publish", "toggle"},
		{fiber.MethodDelete, "/api/v1/contents/" + id, "delete"},
	} {
		status, _ := request(t, app, tc.method, tc.path, false)
		assert.Equal(t, fiber.StatusUnauthorized, status, tc.method)

		status, body := request(t, app, tc.method, tc.path, true)
		assert.Equal(t, fiber.StatusOK, status, tc.method)
		assert.Equal(t, tc.want, body)
	}
}

func TestContentWritersCanBeOpen(t *testing.T) {
	app := fiber.New()
	require.NoError(t, SetupRoutes(app, Options{Auth: tokenAuth{}}, func(v1 fiber.Router, r *Router) error {
		r.RegisterCRUDRoutes(v1, "/contact-social", echoHandler{}, SlotGlobalConfig, r.ContentWriters())
		return nil
	}))

	status, body := request(t, app, fiber.MethodPost, "/api/v1/contact-social", false)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "create", body)

	_, body = request(t, app, fiber.MethodGet, "/api/v1/contact-social/active", false)
	assert.Equal(t, "active:", body)
}
