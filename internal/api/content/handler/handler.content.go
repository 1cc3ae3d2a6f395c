// Package contenthdl exposes the page-like families over HTTP.
package contenthdl

import (
	basehdl "zeniverse_api/internal/api/base/handler"
	contentdto "zeniverse_api/internal/api/content/dto"
	models "zeniverse_api/internal/api/content/models"
	contentsvc "zeniverse_api/internal/api/content/service"
)

type (
	ContentHandler           = basehdl.ManagedHandler[models.Content, *models.Content, contentdto.ContentCreateInput, contentdto.ContentUpdateInput]
	ContentManagementHandler = basehdl.ManagedHandler[models.ContentManagement, *models.ContentManagement, contentdto.ContentManagementCreateInput, contentdto.ContentManagementUpdateInput]
	ContactSocialHandler     = basehdl.ManagedHandler[models.ContactSocial, *models.ContactSocial, contentdto.ContactSocialCreateInput, contentdto.ContactSocialUpdateInput]
)

func NewContentHandler(svc *contentsvc.ContentService) *ContentHandler {
	return basehdl.NewManagedHandler[models.Content, *models.Content, contentdto.ContentCreateInput, contentdto.ContentUpdateInput](
		svc, "content", (*contentdto.ContentCreateInput).ToModel)
}

func NewContentManagementHandler(svc *contentsvc.ContentManagementService) *ContentManagementHandler {
	return basehdl.NewManagedHandler[models.ContentManagement, *models.ContentManagement, contentdto.ContentManagementCreateInput, contentdto.ContentManagementUpdateInput](
		svc, "content_management", (*contentdto.ContentManagementCreateInput).ToModel)
}

func NewContactSocialHandler(svc *contentsvc.ContactSocialService) *ContactSocialHandler {
	return basehdl.NewManagedHandler[models.ContactSocial, *models.ContactSocial, contentdto.ContactSocialCreateInput, contentdto.ContactSocialUpdateInput](
		svc, "contact_social", (*contentdto.ContactSocialCreateInput).ToModel)
}
