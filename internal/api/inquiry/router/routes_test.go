package router

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "zeniverse_api/internal/api/base/models"
	"zeniverse_api/internal/api/base/service/storetest"
	inquiryhdl "zeniverse_api/internal/api/inquiry/handler"
	models "zeniverse_api/internal/api/inquiry/models"
	inquirysvc "zeniverse_api/internal/api/inquiry/service"
	apirouter "zeniverse_api/internal/api/router"
	"zeniverse_api/internal/common"
)

type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, token string) (*basemodels.Principal, error) {
	if token == "admin" {
		return &basemodels.Principal{ID: primitive.NewObjectID(), Username: "ops", Role: basemodels.RoleAdmin}, nil
	}
	return nil, common.ErrTokenInvalid
}

const form = `{"name":"Jane Doe","email":"jane@example.com","subject":"Hello","message":"Please call me back soon."}`

func newApp(t *testing.T, max int) *fiber.App {
	t.Helper()
	svc := inquirysvc.NewInquiryService(storetest.New[models.Inquiry]())
	app := fiber.New()
	err := apirouter.SetupRoutes(app, apirouter.Options{Auth: tokenAuth{}, ContentWriteAuthRequired: true},
		Register(inquiryhdl.NewInquiryHandler(svc), SubmitLimit{Max: max, Window: time.Minute}))
	require.NoError(t, err)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string, admin bool) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer admin")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSubmitIsPublicAndBackOfficeIsGuarded(t *testing.T) {
	app := newApp(t, 0)

	assert.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/inquiries", form, false))
	assert.Equal(t, fiber.StatusUnprocessableEntity, do(t, app, fiber.MethodPost, "/api/v1/inquiries", `{"name":"J","email":"jane@example.com","subject":"Hi","message":"short"}`, false))

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, fiber.MethodGet, "/api/v1/inquiries", "", false))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, fiber.MethodGet, "/api/v1/inquiries/stats", "", false))
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/inquiries", "", true))
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/inquiries/stats", "", true))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, fiber.MethodGet, "/api/v1/inquiries/"+primitive.NewObjectID().Hex(), "", true))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodPatch, "/api/v1/inquiries/not-an-id/status", `{"status":"resolved"}`, true))
}

func TestSubmitIsRateLimited(t *testing.T) {
	app := newApp(t, 2)

	assert.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/inquiries", form, false))
	assert.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/inquiries", form, false))
	assert.Equal(t, fiber.StatusTooManyRequests, do(t, app, fiber.MethodPost, "/api/v1/inquiries", form, false))

	// reads do not consume the budget
	for i := 0; i < 3; i++ {
		assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/inquiries", "", true))
	}
}
