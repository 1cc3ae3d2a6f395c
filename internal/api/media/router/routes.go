// Package router registers the /media routes.
package router

import (
	"github.com/gofiber/fiber/v3"

	mediahdl "zeniverse_api/internal/api/media/handler"
	apirouter "zeniverse_api/internal/api/router"
)

// Register mounts the admin-only upload proxy.
func Register(h *mediahdl.MediaHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		g := apirouter.GroupWithMiddleware(v1, "/media", r.AdminOnly())
		g.Post("/upload", h.HandleUpload)
		g.Delete("/", h.HandleDelete)
		return nil
	}
}
