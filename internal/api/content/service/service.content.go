// Package contentsvc configures the managed services of the page-like
// families.
package contentsvc

import (
	"fmt"

	basesvc "zeniverse_api/internal/api/base/service"
	models "zeniverse_api/internal/api/content/models"
	"zeniverse_api/internal/utility"
)

type (
	ContentService           = basesvc.ManagedService[models.Content, *models.Content]
	ContentManagementService = basesvc.ManagedService[models.ContentManagement, *models.ContentManagement]
	ContactSocialService     = basesvc.ManagedService[models.ContactSocial, *models.ContactSocial]
)

var pageSortFields = []string{"title", "type", "publishedAt", "updatedAt"}

// renderContentBody fills BodyHTML from Body.
func renderContentBody(doc interface{}) error {
	content, ok := doc.(*models.Content)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}
	html, err := utility.RenderMarkdown(content.Body)
	if err != nil {
		return err
	}
	content.BodyHTML = html
	return nil
}

// NewContentService serves static pages, one published per type.
func NewContentService(store basesvc.BaseServiceMongo[models.Content], authors basesvc.AuthorResolver) *ContentService {
	return basesvc.NewManagedService[models.Content, *models.Content](store, basesvc.ManagedConfig{
		Family:       "contents",
		Slot:         basesvc.SlotPerType,
		SearchFields: []string{"title", "body"},
		SortFields:   pageSortFields,
		BeforeSave:   renderContentBody,
	}, authors)
}

// NewContentManagementService serves page section blocks, one published per page type.
func NewContentManagementService(store basesvc.BaseServiceMongo[models.ContentManagement], authors basesvc.AuthorResolver) *ContentManagementService {
	return basesvc.NewManagedService[models.ContentManagement, *models.ContentManagement](store, basesvc.ManagedConfig{
		Family:       "content-management",
		Slot:         basesvc.SlotPerType,
		SearchFields: []string{"title", "subtitle", "sections.title", "sections.content"},
		SortFields:   pageSortFields,
	}, authors)
}

// NewContactSocialService serves the contact block, one published overall.
func NewContactSocialService(store basesvc.BaseServiceMongo[models.ContactSocial], authors basesvc.AuthorResolver) *ContactSocialService {
	return basesvc.NewManagedService[models.ContactSocial, *models.ContactSocial](store, basesvc.ManagedConfig{
		Family:       "contact-social",
		Slot:         basesvc.SlotGlobal,
		SearchFields: []string{"title", "contactDetails.value", "socialLinks.platform"},
		SortFields:   []string{"title", "publishedAt", "updatedAt"},
	}, authors)
}
