package basehdl

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"zeniverse_api/internal/api/middleware"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	return middleware.JSONResponse(c, statusCode, data)
}

// SafeHandler runs handler and turns a panic into a 500 envelope.
func (h BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Handler panic: %v", r)
			err = h.HandleResponse(c, common.StatusInternalServerError, "", nil, fmt.Errorf("panic: %v", r))
		}
	}()
	return handler()
}

// HandleResponse writes the response envelope. A non-nil err wins over data;
// an empty message falls back to MsgSuccess.
func (h BaseHandler) HandleResponse(c fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		if common.StatusOf(err) >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request failed")
		}
		return middleware.HandleErrorResponse(c, err)
	}
	if message == "" {
		message = common.MsgSuccess
	}
	return JSONResponse(c, status, common.SuccessEnvelope(status, message, data))
}

// OK is HandleResponse with 200 and the default message.
func (h BaseHandler) OK(c fiber.Ctx, data interface{}, err error) error {
	return h.HandleResponse(c, common.StatusOK, common.MsgSuccess, data, err)
}
