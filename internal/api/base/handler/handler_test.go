package basehdl_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	basehdl "zeniverse_api/internal/api/base/handler"
	basemodels "zeniverse_api/internal/api/base/models"
	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/api/base/service/storetest"
	"zeniverse_api/internal/common"
)

type block struct {
	basemodels.Managed `bson:",inline"`
	Type               string `json:"type" bson:"type" validate:"required,oneof=home_page about_page"`
	Subtitle           string `json:"subtitle" bson:"subtitle"`
}

type blockCreate struct {
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Subtitle    string `json:"subtitle"`
	IsPublished bool   `json:"isPublished"`
}

type blockUpdate struct {
	Title    *string `json:"title" bson:"title,omitempty"`
	Type     *string `json:"type" bson:"type,omitempty"`
	Subtitle *string `json:"subtitle" bson:"subtitle,omitempty"`
}

type envelope struct {
	Response common.ResponseMeta `json:"response"`
	Data     json.RawMessage     `json:"data"`
}

func newBlockApp(t *testing.T) *fiber.App {
	t.Helper()
	store := storetest.New[block]("slug")
	svc := basesvc.NewManagedService[block, *block](store, basesvc.ManagedConfig{
		Family:       "blocks",
		Slot:         basesvc.SlotPerType,
		SearchFields: []string{"title", "subtitle"},
		SortFields:   []string{"title"},
	}, nil)

	h := basehdl.NewManagedHandler[block, *block, blockCreate, blockUpdate](svc, "block", func(in *blockCreate) *block {
		b := &block{Type: in.Type, Subtitle: in.Subtitle}
		b.Title = in.Title
		b.IsPublished = in.IsPublished
		return b
	})

	app := fiber.New()
	g := app.Group("/blocks")
	g.Get("/", h.HandleList)
	g.Get("/active/:type", h.HandleGetActive)
	g.Get("/slug/:slug", h.HandleGetBySlug)
	g.Get("/:id", h.HandleGetByID)
	g.Post("/", h.HandleCreate)
	g.Put("/:id", h.HandleUpdate)
	g.Patch("/:id/publish", h.HandleTogglePublish)
	g.Delete("/:id", h.HandleDelete)
	return app
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Response.ResponseCode, "envelope mirrors the status")
	return resp.StatusCode, env
}

func decodeBlock(t *testing.T, raw json.RawMessage) block {
	t.Helper()
	var b block
	require.NoError(t, json.Unmarshal(raw, &b))
	return b
}

func TestManagedHandlerLifecycle(t *testing.T) {
	app := newBlockApp(t)

	status, env := call(t, app, fiber.MethodPost, "/blocks", `{"title":"Home Hero","type":"home_page","isPublished":true}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, common.MsgCreated, env.Response.ResponseMessage)
	first := decodeBlock(t, env.Data)
	assert.Equal(t, "home-hero", first.Slug)
	require.NotNil(t, first.PublishedAt)

	status, env = call(t, app, fiber.MethodPost, "/blocks", `{"title":"Home Hero","type":"home_page","isPublished":true}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, common.ErrCodeBusinessState.Code, env.Response.ErrorCode)

	status, env = call(t, app, fiber.MethodGet, "/blocks/active/home_page", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, first.ID, decodeBlock(t, env.Data).ID)

	status, _ = call(t, app, fiber.MethodGet, "/blocks/active/about_page", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, app, fiber.MethodPatch, "/blocks/"+first.ID.Hex()+"/publish", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, common.MsgUnpublished, env.Response.ResponseMessage)
	assert.Nil(t, decodeBlock(t, env.Data).PublishedAt)

	status, env = call(t, app, fiber.MethodPatch, "/blocks/"+first.ID.Hex()+"/publish", `{"isPublished":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, common.MsgPublished, env.Response.ResponseMessage)

	status, env = call(t, app, fiber.MethodPut, "/blocks/"+first.ID.Hex(), `{"title":"Landing Hero"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "landing-hero", decodeBlock(t, env.Data).Slug)

	status, env = call(t, app, fiber.MethodGet, "/blocks/slug/landing-hero", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Landing Hero", decodeBlock(t, env.Data).Title)

	status, _ = call(t, app, fiber.MethodDelete, "/blocks/"+first.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, fiber.MethodDelete, "/blocks/"+first.ID.Hex(), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestManagedHandlerRejectsBadInput(t *testing.T) {
	app := newBlockApp(t)

	status, _ := call(t, app, fiber.MethodPost, "/blocks", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := call(t, app, fiber.MethodPost, "/blocks", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(mustJSON(t, env)), `"type"`)

	status, env = call(t, app, fiber.MethodPost, "/blocks", `{"title":"x","type":"blog"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status, "model validation runs after the DTO")
	assert.Equal(t, common.MsgValidationError, env.Response.ResponseMessage)

	status, _ = call(t, app, fiber.MethodGet, "/blocks/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, fiber.MethodGet, "/blocks?page=two", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, fiber.MethodGet, "/blocks?isPublished=maybe", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestManagedHandlerList(t *testing.T) {
	app := newBlockApp(t)
	for _, title := range []string{"Alpha one", "Beta", "alpha two"} {
		status, _ := call(t, app, fiber.MethodPost, "/blocks", `{"title":"`+title+`","type":"about_page"}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := call(t, app, fiber.MethodGet, "/blocks?search=ALPHA&limit=1&sortBy=title&sortOrder=asc&unknown=1", "")
	require.Equal(t, http.StatusOK, status)

	var page basemodels.ListResult[block]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alpha one", page.Items[0].Title)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
	assert.Equal(t, int64(2), page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
	assert.False(t, page.Pagination.HasPrevPage)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

func TestHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", basehdl.NewSystemHandler(fakePinger{}).HandleHealth)
	app.Get("/down", basehdl.NewSystemHandler(fakePinger{err: errors.New("no primary")}).HandleHealth)

	status, env := call(t, app, fiber.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"database":"ok"`)

	status, env = call(t, app, fiber.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(env.Data), `"degraded"`)
}
