package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"zeniverse_api/internal/common"
)

// Pinger is the part of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// SystemHandler serves the operational endpoints.
type SystemHandler struct {
	BaseHandler
	db Pinger
}

// NewSystemHandler returns a handler pinging db on each health request.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{BaseHandler: NewBaseHandler(), db: db}
}

// HandleHealth reports 200 when the database answers, 503 otherwise.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	switch {
	case h.db == nil:
		health["status"] = "degraded"
		services["database"] = "not_initialized"
	default:
		if err := h.db.Ping(ctx, nil); err != nil {
			health["status"] = "degraded"
			services["database"] = "error"
			return JSONResponse(c, common.StatusServiceUnavailable,
				common.SuccessEnvelope(common.StatusServiceUnavailable, common.MsgServiceUnhealthy, health))
		}
		services["database"] = "ok"
	}

	return h.OK(c, health, nil)
}
