package middleware

import (
	"github.com/gofiber/fiber/v3"

	"zeniverse_api/internal/common"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleErrorResponse writes err in the response envelope. Kept here so the
// middleware does not import the handler package.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, env := common.ErrorEnvelope(err, common.ExposeInternalErrors())
	return JSONResponse(c, status, env)
}
