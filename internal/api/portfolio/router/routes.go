// Package router registers the portfolio families.
package router

import (
	"github.com/gofiber/fiber/v3"

	portfoliohdl "zeniverse_api/internal/api/portfolio/handler"
	apirouter "zeniverse_api/internal/api/router"
)

// Handlers groups the handlers Register mounts.
type Handlers struct {
	News        *portfoliohdl.NewsHandler
	Initiatives *portfoliohdl.InitiativeHandler
	Ventures    *portfoliohdl.VentureHandler
}

// Register mounts /news, /initiatives and /ventures.
func Register(h Handlers) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		writers := r.ContentWriters()
		r.RegisterCRUDRoutes(v1, "/news", h.News, apirouter.PublishedConfig, writers)
		r.RegisterCRUDRoutes(v1, "/initiatives", h.Initiatives, apirouter.PublishedConfig, writers)
		r.RegisterCRUDRoutes(v1, "/ventures", h.Ventures, apirouter.PublishedConfig, writers)
		return nil
	}
}
