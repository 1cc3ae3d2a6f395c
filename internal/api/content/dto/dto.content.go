// Package contentdto holds the request bodies of the page-like families.
// Update inputs use pointers: a nil field is left untouched.
package contentdto

import (
	models "zeniverse_api/internal/api/content/models"
	basemodels "zeniverse_api/internal/api/base/models"
)

// ContentCreateInput creates a static page.
type ContentCreateInput struct {
	Title       string          `json:"title" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	Body        string          `json:"body"`
	Seo         *basemodels.Seo `json:"seo"`
	Version     string          `json:"version"`
	IsPublished bool            `json:"isPublished"`
}

// ToModel maps the input onto a new record.
func (in *ContentCreateInput) ToModel() *models.Content {
	doc := &models.Content{Type: in.Type, Body: in.Body}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	if in.Seo != nil {
		doc.Seo = *in.Seo
	}
	return doc
}

// ContentUpdateInput patches a static page.
type ContentUpdateInput struct {
	Title       *string         `json:"title" bson:"title,omitempty"`
	Type        *string         `json:"type" bson:"type,omitempty"`
	Body        *string         `json:"body" bson:"body,omitempty"`
	Seo         *basemodels.Seo `json:"seo" bson:"seo,omitempty"`
	Version     *string         `json:"version" bson:"version,omitempty"`
	IsPublished *bool           `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt *int64          `json:"publishedAt" bson:"publishedAt,omitempty"`
}

// ContentManagementCreateInput creates a page section block.
type ContentManagementCreateInput struct {
	Title       string           `json:"title" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	Subtitle    string           `json:"subtitle"`
	Sections    []models.Section `json:"sections"`
	Seo         *basemodels.Seo  `json:"seo"`
	Version     string           `json:"version"`
	IsPublished bool             `json:"isPublished"`
}

// ToModel maps the input onto a new record.
func (in *ContentManagementCreateInput) ToModel() *models.ContentManagement {
	doc := &models.ContentManagement{Type: in.Type, Subtitle: in.Subtitle, Sections: in.Sections}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	if in.Seo != nil {
		doc.Seo = *in.Seo
	}
	return doc
}

// ContentManagementUpdateInput patches a page section block. Sections
// replaces the whole list.
type ContentManagementUpdateInput struct {
	Title       *string           `json:"title" bson:"title,omitempty"`
	Type        *string           `json:"type" bson:"type,omitempty"`
	Subtitle    *string           `json:"subtitle" bson:"subtitle,omitempty"`
	Sections    *[]models.Section `json:"sections" bson:"sections,omitempty"`
	Seo         *basemodels.Seo   `json:"seo" bson:"seo,omitempty"`
	Version     *string           `json:"version" bson:"version,omitempty"`
	IsPublished *bool             `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt *int64            `json:"publishedAt" bson:"publishedAt,omitempty"`
}

// ContactSocialCreateInput creates the contact block.
type ContactSocialCreateInput struct {
	Title          string                 `json:"title" validate:"required"`
	ContactDetails []models.ContactDetail `json:"contactDetails"`
	SocialLinks    []models.SocialLink    `json:"socialLinks"`
	Version        string                 `json:"version"`
	IsPublished    bool                   `json:"isPublished"`
}

// ToModel maps the input onto a new record.
func (in *ContactSocialCreateInput) ToModel() *models.ContactSocial {
	doc := &models.ContactSocial{ContactDetails: in.ContactDetails, SocialLinks: in.SocialLinks}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	return doc
}

// ContactSocialUpdateInput patches the contact block.
type ContactSocialUpdateInput struct {
	Title          *string                 `json:"title" bson:"title,omitempty"`
	ContactDetails *[]models.ContactDetail `json:"contactDetails" bson:"contactDetails,omitempty"`
	SocialLinks    *[]models.SocialLink    `json:"socialLinks" bson:"socialLinks,omitempty"`
	Version        *string                 `json:"version" bson:"version,omitempty"`
	IsPublished    *bool                   `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt    *int64                  `json:"publishedAt" bson:"publishedAt,omitempty"`
}
