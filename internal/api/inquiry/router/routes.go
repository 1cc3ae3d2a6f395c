// Package router registers the /inquiries routes.
package router

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	inquiryhdl "zeniverse_api/internal/api/inquiry/handler"
	"zeniverse_api/internal/api/middleware"
	apirouter "zeniverse_api/internal/api/router"
	"zeniverse_api/internal/common"
)

// SubmitLimit throttles contact form posts per client IP. Max <= 0 disables it.
type SubmitLimit struct {
	Max    int
	Window time.Duration
}

// submitLimiter only counts POSTs so the admin reads on the same prefix are
// never throttled by it.
func submitLimiter(l SubmitLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        l.Max,
		Expiration: l.Window,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return middleware.HandleErrorResponse(c, common.ErrRateLimited)
		},
		Next: func(c fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
	})
}

// Register mounts the public POST /inquiries and the admin back office.
func Register(h *inquiryhdl.InquiryHandler, limit SubmitLimit) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		var public []fiber.Handler
		if limit.Max > 0 {
			public = append(public, submitLimiter(limit))
		}
		apirouter.GroupWithMiddleware(v1, "/inquiries", public).Post("/", h.HandleSubmit)

		admin := apirouter.GroupWithMiddleware(v1, "/inquiries", r.AdminOnly())
		admin.Get("/", h.HandleList)
		admin.Get("/stats", h.HandleStats)
		admin.Get("/:id", h.HandleGet)
		admin.Patch("/:id/status", h.HandleUpdateStatus)
		admin.Delete("/:id", h.HandleDelete)
		return nil
	}
}
