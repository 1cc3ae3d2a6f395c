package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"zeniverse_api/config"
	"zeniverse_api/internal/api/middleware"
	apirouter "zeniverse_api/internal/api/router"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

const healthPath = "/api/v1/system/health"

// fiberError maps framework errors (unknown route, body too large, ...) onto
// the error taxonomy so they leave in the same envelope as handler errors.
func fiberError(e *fiber.Error) error {
	switch e.Code {
	case fiber.StatusRequestEntityTooLarge:
		return common.ErrPayloadTooBig
	case fiber.StatusNotFound:
		return common.NewError(common.ErrCodeValidationInput, "Route not found", common.StatusNotFound, nil)
	case fiber.StatusMethodNotAllowed:
		return common.NewError(common.ErrCodeValidationInput, e.Message, e.Code, nil)
	case fiber.StatusTooManyRequests:
		return common.ErrRateLimited
	}
	if e.Code < fiber.StatusInternalServerError {
		return common.NewError(common.ErrCodeValidationFormat, e.Message, e.Code, nil)
	}
	return common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, e.Code, nil)
}

func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		// plain HTTP clients talking TLS to an HTTP listener
		if strings.Contains(fe.Message, "unsupported http request method") {
			return middleware.HandleErrorResponse(c, common.WithDetails(common.ErrInvalidFormat, "server speaks plain HTTP, use http://"))
		}
		err = fiberError(fe)
	}

	if common.StatusOf(err) >= fiber.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request error")
	}
	return middleware.HandleErrorResponse(c, err)
}

// InitFiberApp builds the app with its middleware stack and routes.
func InitFiberApp(cfg *config.Configuration, wiring *App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Zeniverse API",
		ServerHeader:  "Zeniverse API",
		CaseSensitive: true,
		UnescapePath:  true,

		BodyLimit:       cfg.BodyLimitMB << 20,
		Concurrency:     256 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS, before anything that could reject a preflight
	origins := cfg.CORSOrigins()
	allowCredentials := cfg.CORS_AllowCredentials
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Global rate limit
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.HandleErrorResponse(c, common.ErrRateLimited)
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover; the returned error goes through errorHandler
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	if err := apirouter.SetupRoutes(app, wiring.Options, wiring.Routes...); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}
	return app
}
