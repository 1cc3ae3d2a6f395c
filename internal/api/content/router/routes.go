// Package router registers the page-like families.
package router

import (
	"github.com/gofiber/fiber/v3"

	contenthdl "zeniverse_api/internal/api/content/handler"
	apirouter "zeniverse_api/internal/api/router"
)

// Handlers groups the handlers Register mounts.
type Handlers struct {
	Content           *contenthdl.ContentHandler
	ContentManagement *contenthdl.ContentManagementHandler
	ContactSocial     *contenthdl.ContactSocialHandler
}

// Register mounts /contents, /content-management and /contact-social.
func Register(h Handlers) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		writers := r.ContentWriters()
		r.RegisterCRUDRoutes(v1, "/contents", h.Content, apirouter.SlotPerTypeConfig, writers)
		r.RegisterCRUDRoutes(v1, "/content-management", h.ContentManagement, apirouter.SlotPerTypeConfig, writers)
		r.RegisterCRUDRoutes(v1, "/contact-social", h.ContactSocial, apirouter.SlotGlobalConfig, writers)
		return nil
	}
}
