// Package authhdl serves login, the caller's own account and the super
// admin account management.
package authhdl

import (
	"github.com/gofiber/fiber/v3"

	authdto "zeniverse_api/internal/api/auth/dto"
	authsvc "zeniverse_api/internal/api/auth/service"
	basehdl "zeniverse_api/internal/api/base/handler"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

// AuthHandler handles /auth.
type AuthHandler struct {
	basehdl.BaseHandler
	admins *authsvc.AdminService
}

// NewAuthHandler returns the handler.
func NewAuthHandler(admins *authsvc.AdminService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: basehdl.NewBaseHandler(),
		admins:      admins,
	}
}

// HandleLogin exchanges credentials for a token.
func (h *AuthHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		result, err := h.admins.Login(c.Context(), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]interface{}{"username": input.Username})
			return h.OK(c, nil, err)
		}

		c.Locals(logger.LocalAdminID, result.Admin.ID.Hex())
		logger.LogAuth("login", c, map[string]interface{}{"username": result.Admin.Username})
		return h.HandleResponse(c, common.StatusOK, "Login successful", result, nil)
	})
}

// HandleMe returns the caller's account.
func (h *AuthHandler) HandleMe(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor := h.ActorID(c)
		if actor == nil {
			return h.OK(c, nil, common.ErrTokenMissing)
		}
		admin, err := h.admins.Get(c.Context(), *actor)
		return h.OK(c, admin, err)
	})
}

func (h *AuthHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor := h.ActorID(c)
		if actor == nil {
			return h.OK(c, nil, common.ErrTokenMissing)
		}

		var input authdto.ChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}
		if err := h.admins.ChangePassword(c.Context(), *actor, &input); err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogAuth("change_password", c, nil)
		return h.HandleResponse(c, common.StatusOK, "Password changed", nil, nil)
	})
}

func (h *AuthHandler) HandleListAdmins(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		q, err := h.ParseListQuery(c, h.admins.ListFilterKeys())
		if err != nil {
			return h.OK(c, nil, err)
		}
		result, err := h.admins.List(c.Context(), q)
		return h.OK(c, result, err)
	})
}

func (h *AuthHandler) HandleCreateAdmin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.AdminCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}
		admin, err := h.admins.Create(c.Context(), &input)
		if err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("create", "admin", admin.ID.Hex(), c, map[string]interface{}{"role": admin.Role})
		return h.HandleResponse(c, common.StatusCreated, common.MsgCreated, admin, nil)
	})
}

func (h *AuthHandler) HandleUpdateAdmin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		var input authdto.AdminUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}
		admin, err := h.admins.Update(c.Context(), id, &input, h.ActorID(c))
		if err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("update", "admin", id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgUpdated, admin, nil)
	})
}

func (h *AuthHandler) HandleDeleteAdmin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		if err := h.admins.Delete(c.Context(), id, h.ActorID(c)); err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("delete", "admin", id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgDeleted, nil, nil)
	})
}
