package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/crypto/bcrypt"

	"zeniverse_api/config"
	authmodels "zeniverse_api/internal/api/auth/models"
	"zeniverse_api/internal/api/base/service/storetest"
	contentmodels "zeniverse_api/internal/api/content/models"
	"zeniverse_api/internal/api/events"
	inquirymodels "zeniverse_api/internal/api/inquiry/models"
	portfoliomodels "zeniverse_api/internal/api/portfolio/models"
	"zeniverse_api/internal/common"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

type reply struct {
	Status int
	Meta   common.ResponseMeta
	Data   json.RawMessage
}

func (c *client) do(method, target, body string) reply {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env struct {
		Response common.ResponseMeta `json:"response"`
		Data     json.RawMessage     `json:"data"`
	}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return reply{Status: resp.StatusCode, Meta: env.Response, Data: env.Data}
}

func newServer(t *testing.T, db pinger) *fiber.App {
	t.Helper()
	cfg := &config.Configuration{
		JwtSecret:                "e2e-secret",
		JwtExpiresHours:          1,
		BodyLimitMB:              4,
		CORS_Origins:             "*",
		ContentWriteAuthRequired: true,
		InquiryRateLimit_Max:     10,
		RateLimit_Window:         60,
		SuperAdminUsername:       "root",
		SuperAdminEmail:          "root@zeniverse.test",
		SuperAdminPassword:       "Sup3rSecret",
	}
	stores := Stores{
		Admins:             storetest.New[authmodels.Admin]("username", "email"),
		Contents:           storetest.New[contentmodels.Content]("slug"),
		ContentManagements: storetest.New[contentmodels.ContentManagement]("slug"),
		ContactSocials:     storetest.New[contentmodels.ContactSocial]("slug"),
		News:               storetest.New[portfoliomodels.News]("slug"),
		Initiatives:        storetest.New[portfoliomodels.Initiative]("slug"),
		Ventures:           storetest.New[portfoliomodels.Venture]("slug"),
		Inquiries:          storetest.New[inquirymodels.Inquiry](),
	}

	wiring, err := Wire(cfg, stores, db, events.NewBus())
	require.NoError(t, err)
	wiring.Admins.HashCost = bcrypt.MinCost
	_, err = wiring.Admins.SeedSuperAdmin(context.Background(), cfg.SuperAdminUsername, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	require.NoError(t, err)

	return InitFiberApp(cfg, wiring)
}

func TestPublishingFlow(t *testing.T) {
	app := newServer(t, pinger{})
	anon := &client{t: t, app: app}

	res := anon.do(fiber.MethodPost, "/api/v1/contents", `{"title":"FAQ","type":"faq","isPublished":true}`)
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)

	res = anon.do(fiber.MethodPost, "/api/v1/auth/login", `{"username":"root","password":"Sup3rSecret"}`)
	require.Equal(t, fiber.StatusOK, res.Status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	admin := &client{t: t, app: app, token: login.Token}

	res = admin.do(fiber.MethodPost, "/api/v1/contents", `{"title":"FAQ","type":"faq","body":"# Questions","isPublished":true}`)
	require.Equal(t, fiber.StatusCreated, res.Status)
	var first contentmodels.Content
	require.NoError(t, json.Unmarshal(res.Data, &first))
	assert.Equal(t, "faq", first.Slug)
	assert.Contains(t, first.BodyHTML, "<h1")

	res = admin.do(fiber.MethodPost, "/api/v1/contents", `{"title":"FAQ","type":"faq","isPublished":true}`)
	assert.Equal(t, fiber.StatusConflict, res.Status)

	res = admin.do(fiber.MethodPost, "/api/v1/contents", `{"title":"FAQ","type":"faq"}`)
	require.Equal(t, fiber.StatusCreated, res.Status)
	var draft contentmodels.Content
	require.NoError(t, json.Unmarshal(res.Data, &draft))
	assert.Equal(t, "faq-1", draft.Slug)

	res = anon.do(fiber.MethodGet, "/api/v1/contents/active/faq", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	var active contentmodels.Content
	require.NoError(t, json.Unmarshal(res.Data, &active))
	assert.Equal(t, first.ID, active.ID)
	require.NotNil(t, active.Creator)
	assert.Equal(t, "root", active.Creator.Username)

	// swap the published record
	res = admin.do(fiber.MethodPatch, "/api/v1/contents/"+first.ID.Hex()+"/publish", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, common.MsgUnpublished, res.Meta.ResponseMessage)
	res = admin.do(fiber.MethodPatch, "/api/v1/contents/"+draft.ID.Hex()+"/publish", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, common.MsgPublished, res.Meta.ResponseMessage)

	res = anon.do(fiber.MethodGet, "/api/v1/contents/active/faq", "")
	require.NoError(t, json.Unmarshal(res.Data, &active))
	assert.Equal(t, draft.ID, active.ID)

	res = anon.do(fiber.MethodGet, "/api/v1/contents?isPublished=false", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Contains(t, string(res.Data), `"totalItems":1`)

	res = anon.do(fiber.MethodGet, "/api/v1/contents?page=92233720368547759&limit=100", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Contains(t, string(res.Data), `"items":[]`)
}

func TestBackOfficeFlow(t *testing.T) {
	app := newServer(t, pinger{})
	anon := &client{t: t, app: app}

	res := anon.do(fiber.MethodPost, "/api/v1/inquiries", `{"name":"Jane Doe","email":"jane@example.com","subject":"Investing","message":"We want to talk about your seed fund.","inquiryType":"investment"}`)
	require.Equal(t, fiber.StatusCreated, res.Status)

	res = anon.do(fiber.MethodGet, "/api/v1/inquiries/stats", "")
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)

	res = anon.do(fiber.MethodPost, "/api/v1/auth/login", `{"username":"root@zeniverse.test","password":"Sup3rSecret"}`)
	require.Equal(t, fiber.StatusOK, res.Status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	admin := &client{t: t, app: app, token: login.Token}

	res = admin.do(fiber.MethodGet, "/api/v1/inquiries/stats", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	var stats inquirymodels.Stats
	require.NoError(t, json.Unmarshal(res.Data, &stats))
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[inquirymodels.StatusNew])

	res = admin.do(fiber.MethodGet, "/api/v1/auth/me", "")
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Contains(t, string(res.Data), `"role":"super_admin"`)
	assert.NotContains(t, string(res.Data), "password")

	res = admin.do(fiber.MethodPost, "/api/v1/ventures", `{"title":"Acme Robotics","industry":"robotics","stage":"seed","isPublished":true}`)
	require.Equal(t, fiber.StatusCreated, res.Status)
	res = admin.do(fiber.MethodPost, "/api/v1/ventures", `{"title":"Beta Labs","industry":"biotech","stage":"growth","isPublished":true}`)
	require.Equal(t, fiber.StatusCreated, res.Status, "ventures have no publish slot")

	res = anon.do(fiber.MethodGet, "/api/v1/ventures/slug/acme-robotics", "")
	assert.Equal(t, fiber.StatusOK, res.Status)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	anon := &client{t: t, app: newServer(t, pinger{})}
	res := anon.do(fiber.MethodGet, "/api/v1/system/health", "")
	assert.Equal(t, fiber.StatusOK, res.Status)

	res = anon.do(fiber.MethodGet, "/api/v1/nothing-here", "")
	assert.Equal(t, fiber.StatusNotFound, res.Status)

	down := &client{t: t, app: newServer(t, pinger{err: errors.New("no reachable servers")})}
	res = down.do(fiber.MethodGet, "/api/v1/system/health", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, res.Status)
	assert.Equal(t, common.MsgServiceUnhealthy, res.Meta.ResponseMessage)
}
