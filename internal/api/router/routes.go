// Package router registers the HTTP routes of every domain under /api/v1.
//
// Middleware must be attached with Use on a group, never passed inline as
// router.Get(path, mw, handler): Fiber v3 skipped inline middleware on the
// routes we tried it on. Fiber matches routes in registration order, so a
// domain registers its public routes before the guarded group of the same
// prefix.
package router

import (
	"github.com/gofiber/fiber/v3"

	"zeniverse_api/internal/api/middleware"
)

// CRUDHandler is the route surface of a managed family.
type CRUDHandler interface {
	HandleList(c fiber.Ctx) error
	HandleGetActive(c fiber.Ctx) error
	HandleGetBySlug(c fiber.Ctx) error
	HandleGetByID(c fiber.Ctx) error
	HandleCreate(c fiber.Ctx) error
	HandleUpdate(c fiber.Ctx) error
	HandleTogglePublish(c fiber.Ctx) error
	HandleDelete(c fiber.Ctx) error
}

// CRUDConfig switches the routes of one family.
type CRUDConfig struct {
	// Read
	List   bool // GET /
	Active bool // GET /active
	// ActiveByType registers GET /active/:type instead of GET /active.
	ActiveByType bool
	BySlug       bool // GET /slug/:slug
	ByID         bool // GET /:id

	// Write
	Create bool // POST /
	Update bool // PUT /:id
	Toggle bool // PATCH /:id/publish
	Delete bool // DELETE /:id
}

var (
	// PublishedConfig serves a family without a published slot.
	PublishedConfig = CRUDConfig{
		List: true, BySlug: true, ByID: true,
		Create: true, Update: true, Toggle: true, Delete: true,
	}

	// SlotPerTypeConfig serves a family with one published record per type.
	SlotPerTypeConfig = CRUDConfig{
		List: true, Active: true, ActiveByType: true, BySlug: true, ByID: true,
		Create: true, Update: true, Toggle: true, Delete: true,
	}

	// SlotGlobalConfig serves a family with one published record overall.
	SlotGlobalConfig = CRUDConfig{
		List: true, Active: true, BySlug: true, ByID: true,
		Create: true, Update: true, Toggle: true, Delete: true,
	}
)

// RoutePrefix holds the base prefixes.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Options configures the guards handed to the domain routers.
type Options struct {
	Auth middleware.Authenticator
	// ContentWriteAuthRequired guards managed family writes. When false they
	// are public.
	ContentWriteAuthRequired bool
}

// Router builds the middleware chains the domain routers attach.
type Router struct {
	app  *fiber.App
	opts Options
}

// NewRouter returns a Router for app.
func NewRouter(app *fiber.App, opts Options) *Router {
	return &Router{
		app:  app,
		opts: opts,
	}
}

// Authenticated requires a valid token.
func (r *Router) Authenticated() []fiber.Handler {
	return []fiber.Handler{middleware.AuthMiddleware(r.opts.Auth)}
}

// AdminOnly requires a token of an admin or super admin.
func (r *Router) AdminOnly() []fiber.Handler {
	return []fiber.Handler{middleware.AuthMiddleware(r.opts.Auth), middleware.RequireAdmin()}
}

// SuperAdminOnly requires a super admin token.
func (r *Router) SuperAdminOnly() []fiber.Handler {
	return []fiber.Handler{middleware.AuthMiddleware(r.opts.Auth), middleware.RequireSuperAdmin()}
}

// ContentWriters guards managed family writes, or nothing when the
// deployment keeps them public.
func (r *Router) ContentWriters() []fiber.Handler {
	if !r.opts.ContentWriteAuthRequired {
		return nil
	}
	return r.AdminOnly()
}

// GroupWithMiddleware returns router.Group(prefix) with middlewares attached
// through Use.
func GroupWithMiddleware(router fiber.Router, prefix string, middlewares []fiber.Handler) fiber.Router {
	group := router.Group(prefix)
	for _, mw := range middlewares {
		group.Use(mw)
	}
	return group
}

// RegisterRouteWithMiddleware registers a single route in its own group so the
// middlewares only see requests under prefix.
//
//	RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", r.Authenticated(), h.HandleMe)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := GroupWithMiddleware(router, prefix, middlewares)
	register(routeGroup, method, path, handler)
}

func register(router fiber.Router, method, path string, handler fiber.Handler) {
	switch method {
	case fiber.MethodGet:
		router.Get(path, handler)
	case fiber.MethodPost:
		router.Post(path, handler)
	case fiber.MethodPut:
		router.Put(path, handler)
	case fiber.MethodPatch:
		router.Patch(path, handler)
	case fiber.MethodDelete:
		router.Delete(path, handler)
	}
}

// RegisterCRUDRoutes registers the public reads of a family, then its writes
// behind writeGuard. The specific read paths come before /:id.
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig, writeGuard []fiber.Handler) {
	public := router.Group(prefix)
	if config.List {
		public.Get("/", h.HandleList)
	}
	if config.Active {
		if config.ActiveByType {
			public.Get("/active/:type", h.HandleGetActive)
		} else {
			public.Get("/active", h.HandleGetActive)
		}
	}
	if config.BySlug {
		public.Get("/slug/:slug", h.HandleGetBySlug)
	}
	if config.ByID {
		public.Get("/:id", h.HandleGetByID)
	}

	if !(config.Create || config.Update || config.Toggle || config.Delete) {
		return
	}
	writes := GroupWithMiddleware(router, prefix, writeGuard)
	if config.Create {
		writes.Post("/", h.HandleCreate)
	}
	if config.Update {
		writes.Put("/:id", h.HandleUpdate)
	}
	if config.Toggle {
		writes.Patch("/:id/publish", h.HandleTogglePublish)
	}
	if config.Delete {
		writes.Delete("/:id", h.HandleDelete)
	}
}

// RegisterFunc registers one domain. Domain routers export one so this
// package never imports them.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts every domain under /api/v1.
func SetupRoutes(app *fiber.App, opts Options, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, opts)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
