// Package basehdl holds the request parsing, response writing and the generic
// CRUD handler shared by every managed family.
package basehdl

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/api/middleware"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/utility"
)

// BaseHandler carries the helpers every handler embeds.
type BaseHandler struct{}

// NewBaseHandler makes sure the validator is ready before the first request.
func NewBaseHandler() BaseHandler {
	global.InitValidator()
	return BaseHandler{}
}

// ParseRequestBody decodes the JSON body into input and validates it.
// Malformed JSON is a 400, a failed rule a 422 with per-field details.
func (h BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	return h.ValidateInput(input)
}

// ParseOptionalBody is ParseRequestBody for endpoints whose body may be empty.
// found is false when there was nothing to decode.
func (h BaseHandler) ParseOptionalBody(c fiber.Ctx, input interface{}) (found bool, err error) {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return false, nil
	}
	return true, h.ParseRequestBody(c, input)
}

// ValidateInput runs the validate tags of input.
func (h BaseHandler) ValidateInput(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.WithDetails(common.ErrValidation, global.ValidationDetails(err))
	}
	return nil
}

// ParseID reads the :id route param as an ObjectID.
func (h BaseHandler) ParseID(c fiber.Ctx) (primitive.ObjectID, error) {
	return utility.ParseObjectID(c.Params("id"))
}

// ActorID returns the authenticated admin id, nil on public routes.
func (h BaseHandler) ActorID(c fiber.Ctx) *primitive.ObjectID {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		return nil
	}
	id := principal.ID
	return &id
}

// ParseListQuery reads page, limit, search, sortBy, sortOrder and the filter
// keys the family accepts. Other query keys are ignored.
func (h BaseHandler) ParseListQuery(c fiber.Ctx, filterKeys []string) (basesvc.ListQuery, error) {
	q := basesvc.ListQuery{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sortBy"),
		SortOrder: strings.ToLower(c.Query("sortOrder")),
		Filters:   map[string]string{},
	}

	var err error
	if q.Page, err = parsePositive(c.Query("page"), "page"); err != nil {
		return q, err
	}
	if q.Limit, err = parsePositive(c.Query("limit"), "limit"); err != nil {
		return q, err
	}

	for _, key := range filterKeys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			q.Filters[key] = v
		}
	}
	return q, nil
}

// parsePositive returns 0 for an absent value so the service applies its default.
func parsePositive(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, common.WithDetails(common.ErrInvalidInput, map[string]string{name: "must be a positive integer"})
	}
	return n, nil
}
