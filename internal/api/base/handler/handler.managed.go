package basehdl

import (
	"github.com/gofiber/fiber/v3"

	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

// TogglePublishInput is the optional body of PATCH /:id/publish.
type TogglePublishInput struct {
	IsPublished *bool `json:"isPublished"`
}

// ManagedHandler exposes a ManagedService over HTTP. C is the create DTO,
// U the partial update DTO whose nil fields are left untouched.
type ManagedHandler[T any, PT basesvc.ManagedDocument[T], C any, U any] struct {
	BaseHandler
	Service  *basesvc.ManagedService[T, PT]
	Resource string
	ToModel  func(*C) PT
}

// NewManagedHandler wires a handler for one family.
func NewManagedHandler[T any, PT basesvc.ManagedDocument[T], C any, U any](service *basesvc.ManagedService[T, PT], resource string, toModel func(*C) PT) *ManagedHandler[T, PT, C, U] {
	return &ManagedHandler[T, PT, C, U]{
		BaseHandler: NewBaseHandler(),
		Service:     service,
		Resource:    resource,
		ToModel:     toModel,
	}
}

// HasSlot reports whether the family has an active route.
func (h *ManagedHandler[T, PT, C, U]) HasSlot() bool {
	return h.Service.Config().Slot != basesvc.SlotNone
}

// PerTypeSlot reports whether the active route takes a :type param.
func (h *ManagedHandler[T, PT, C, U]) PerTypeSlot() bool {
	return h.Service.Config().Slot == basesvc.SlotPerType
}

// HandleList serves the list façade.
func (h *ManagedHandler[T, PT, C, U]) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		q, err := h.ParseListQuery(c, h.Service.FilterKeys())
		if err != nil {
			return h.OK(c, nil, err)
		}
		result, err := h.Service.List(c.Context(), q)
		return h.OK(c, result, err)
	})
}

// HandleGetActive returns the published record of the slot named by :type,
// or of the whole family when it has a single slot.
func (h *ManagedHandler[T, PT, C, U]) HandleGetActive(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		doc, err := h.Service.GetPublished(c.Context(), c.Params("type"))
		return h.OK(c, doc, err)
	})
}

func (h *ManagedHandler[T, PT, C, U]) HandleGetBySlug(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		doc, err := h.Service.GetBySlug(c.Context(), c.Params("slug"))
		return h.OK(c, doc, err)
	})
}

func (h *ManagedHandler[T, PT, C, U]) HandleGetByID(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		doc, err := h.Service.GetByID(c.Context(), id)
		return h.OK(c, doc, err)
	})
}

// HandleCreate answers 201 with the stored record.
func (h *ManagedHandler[T, PT, C, U]) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input C
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		created, err := h.Service.Create(c.Context(), h.ToModel(&input), h.ActorID(c))
		if err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("create", h.Resource, created.GetManaged().ID.Hex(), c, map[string]interface{}{
			"slug":        created.GetManaged().Slug,
			"isPublished": created.GetManaged().IsPublished,
		})
		return h.HandleResponse(c, common.StatusCreated, common.MsgCreated, created, nil)
	})
}

func (h *ManagedHandler[T, PT, C, U]) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}

		var input U
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		updated, err := h.Service.Update(c.Context(), id, &input, h.ActorID(c))
		if err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("update", h.Resource, id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgUpdated, updated, nil)
	})
}

// HandleTogglePublish flips isPublished, or sets it when the body names a value.
func (h *ManagedHandler[T, PT, C, U]) HandleTogglePublish(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}

		var input TogglePublishInput
		if _, err := h.ParseOptionalBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		doc, message, err := h.Service.TogglePublish(c.Context(), id, input.IsPublished, h.ActorID(c))
		if err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD(message, h.Resource, id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, message, doc, nil)
	})
}

func (h *ManagedHandler[T, PT, C, U]) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		if err := h.Service.Delete(c.Context(), id); err != nil {
			return h.OK(c, nil, err)
		}

		logger.LogCRUD("delete", h.Resource, id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgDeleted, nil, nil)
	})
}
