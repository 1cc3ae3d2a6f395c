// Package models holds the page-like families: static pages, page section
// blocks and the contact block.
package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// Content types. One record per type may be published.
const (
	ContentTypePrivacyPolicy  = "privacy_policy"
	ContentTypeTermsOfService = "terms_of_service"
	ContentTypeAboutUs        = "about_us"
	ContentTypeFAQ            = "faq"
	ContentTypeGeneral        = "general"
)

// Content is a static page written in markdown. BodyHTML is rendered on
// every write.
type Content struct {
	basemodels.Managed `bson:",inline"`
	Type               string         `json:"type" bson:"type" index:"single" validate:"required,oneof=privacy_policy terms_of_service about_us faq general"`
	Body               string         `json:"body" bson:"body" validate:"max=200000"`
	BodyHTML           string         `json:"bodyHtml" bson:"bodyHtml"`
	Seo                basemodels.Seo `json:"seo" bson:"seo"`
}
