// Package middleware holds the bearer token authentication, role checks and
// the error envelope writer shared by the routers.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	basemodels "zeniverse_api/internal/api/base/models"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

// LocalPrincipal is the Locals key holding the *basemodels.Principal.
const LocalPrincipal = "principal"

// Authenticator resolves a bearer token into the acting admin.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*basemodels.Principal, error)
}

// AuthMiddleware requires a valid `Authorization: Bearer <token>` header and
// stores the principal in Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.WithRequest(c).WithFields(logrus.Fields{"module": "auth"}).Warn("Missing Authorization header")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		principal, err := auth.Authenticate(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.WithRequest(c).WithError(err).WithField("module", "auth").Info("Rejected bearer token")
			return HandleErrorResponse(c, err)
		}

		c.Locals(LocalPrincipal, principal)
		c.Locals(logger.LocalAdminID, principal.ID.Hex())
		return c.Next()
	}
}

// RequireRole lets the request through when allowed(principal) holds. Must
// run after AuthMiddleware.
func RequireRole(allowed func(*basemodels.Principal) bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}
		if !allowed(principal) {
			logger.WithRequest(c).WithField("role", principal.Role).Warn("Role check failed")
			return HandleErrorResponse(c, common.ErrForbidden)
		}
		return c.Next()
	}
}

// RequireAdmin allows admins and super admins.
func RequireAdmin() fiber.Handler {
	return RequireRole((*basemodels.Principal).IsAdminOrAbove)
}

// RequireSuperAdmin allows super admins only.
func RequireSuperAdmin() fiber.Handler {
	return RequireRole((*basemodels.Principal).IsSuperAdmin)
}

// PrincipalFrom returns the authenticated principal or nil.
func PrincipalFrom(c fiber.Ctx) *basemodels.Principal {
	p, _ := c.Locals(LocalPrincipal).(*basemodels.Principal)
	return p
}
