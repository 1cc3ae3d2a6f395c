// Package mediahdl serves the admin media upload proxy.
package mediahdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "zeniverse_api/internal/api/base/handler"
	mediasvc "zeniverse_api/internal/api/media/service"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/utility"
)

// DeleteInput names the asset to remove.
type DeleteInput struct {
	PublicID     string `json:"publicId" validate:"required,max=255"`
	ResourceType string `json:"resourceType" validate:"omitempty,oneof=image video"`
}

type MediaHandler struct {
	basehdl.BaseHandler
	service *mediasvc.MediaService
}

func NewMediaHandler(service *mediasvc.MediaService) *MediaHandler {
	return &MediaHandler{
		BaseHandler: basehdl.NewBaseHandler(),
		service:     service,
	}
}

// HandleUpload takes the multipart field "file" and an optional "folder".
func (h *MediaHandler) HandleUpload(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		fh, err := c.FormFile("file")
		if err != nil {
			return h.OK(c, nil, common.WithDetails(common.ErrRequiredField, map[string]string{"file": "is required"}))
		}
		if fh.Size > h.service.MaxBytes() {
			return h.OK(c, nil, common.WithDetails(common.ErrFileTooLarge, map[string]string{"maxSize": utility.FormatBytes(uint64(h.service.MaxBytes()))}))
		}

		f, err := fh.Open()
		if err != nil {
			return h.OK(c, nil, common.WithDetails(common.ErrInvalidFormat, err.Error()))
		}
		defer f.Close()

		asset, err := h.service.Upload(c.Context(), fh.Filename, f, c.FormValue("folder"))
		if err != nil {
			return h.OK(c, nil, err)
		}
		logger.LogCRUD("upload", "media", asset.PublicID, c, map[string]interface{}{"bytes": asset.Bytes, "mime": asset.MimeType})
		return h.HandleResponse(c, common.StatusCreated, "Uploaded", asset, nil)
	})
}

func (h *MediaHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input DeleteInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.OK(c, nil, err)
		}
		if err := h.service.Delete(c.Context(), input.PublicID, input.ResourceType); err != nil {
			return h.OK(c, nil, err)
		}
		logger.LogCRUD("delete", "media", input.PublicID, c, nil)
		return h.HandleResponse(c, common.StatusOK, common.MsgDeleted, nil, nil)
	})
}
