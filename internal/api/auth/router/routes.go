// Package router registers the /auth routes.
package router

import (
	"github.com/gofiber/fiber/v3"

	authhdl "zeniverse_api/internal/api/auth/handler"
	"zeniverse_api/internal/api/middleware"
	apirouter "zeniverse_api/internal/api/router"
)

// Register returns the RegisterFunc mounting /auth. Login is public, the
// account routes need a token and /auth/admins a super admin.
func Register(h *authhdl.AuthHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		v1.Group("/auth").Post("/login", h.HandleLogin)

		self := apirouter.GroupWithMiddleware(v1, "/auth", r.Authenticated())
		self.Get("/me", h.HandleMe)
		self.Put("/change-password", h.HandleChangePassword)

		// the /auth group above already authenticated the request
		admins := apirouter.GroupWithMiddleware(v1, "/auth/admins", []fiber.Handler{middleware.RequireSuperAdmin()})
		admins.Get("/", h.HandleListAdmins)
		admins.Post("/", h.HandleCreateAdmin)
		admins.Put("/:id", h.HandleUpdateAdmin)
		admins.Delete("/:id", h.HandleDeleteAdmin)
		return nil
	}
}
