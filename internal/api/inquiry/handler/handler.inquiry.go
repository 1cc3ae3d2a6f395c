// Package inquiryhdl serves the public contact form and the inquiry back
// office.
package inquiryhdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "zeniverse_api/internal/api/base/handler"
	inquirydto "zeniverse_api/internal/api/inquiry/dto"
	inquirysvc "zeniverse_api/internal/api/inquiry/service"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
)

const resource = "inquiry"

type InquiryHandler struct {
	basehdl.BaseHandler
	service *inquirysvc.InquiryService
}

func NewInquiryHandler(service *inquirysvc.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		BaseHandler: basehdl.NewBaseHandler(),
		service:     service,
	}
}

// HandleSubmit stores a contact form submission.
func (h *InquiryHandler) HandleSubmit(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input inquirydto.InquiryCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		inq, err := h.service.Create(c.Context(), &input, c.IP(), c.Get(fiber.HeaderUserAgent))
		if err != nil {
			return h.OK(c, nil, err)
		}
		return h.HandleResponse(c, common.StatusCreated, "Thank you, your message has been received", fiber.Map{"id": inq.ID}, nil)
	})
}

func (h *InquiryHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		q, err := h.ParseListQuery(c, h.service.ListFilterKeys())
		if err != nil {
			return h.OK(c, nil, err)
		}
		result, err := h.service.List(c.Context(), q)
		return h.OK(c, result, err)
	})
}

func (h *InquiryHandler) HandleStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		stats, err := h.service.Stats(c.Context())
		return h.OK(c, stats, err)
	})
}

func (h *InquiryHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		inq, err := h.service.Get(c.Context(), id)
		return h.OK(c, inq, err)
	})
}

func (h *InquiryHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		var input inquirydto.InquiryStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}

		inq, err := h.service.UpdateStatus(c.Context(), id, &input)
		if err != nil {
			return h.OK(c, nil, err)
		}
		logger.LogCRUD("update_status", resource, id.Hex(), c, map[string]interface{}{"status": input.Status})
		return h.HandleResponse(c, common.StatusOK, common.MsgUpdated, inq, nil)
	})
}

func (h *InquiryHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c)
		if err != nil {
			return h.OK(c, nil, err)
		}
		if err := h.service.Delete(c.Context(), id); err != nil {
			return h.OK(c, nil, err)
		}
		logger.LogCRUD("delete", resource, id.Hex(), c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgDeleted, nil, nil)
	})
}
