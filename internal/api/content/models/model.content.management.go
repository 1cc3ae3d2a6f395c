package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// Page section block types. One record per type may be published.
const (
	PageHome        = "home_page"
	PageAbout       = "about_page"
	PageVentures    = "ventures_page"
	PageInitiatives = "initiatives_page"
	PageNews        = "news_page"
	PageContact     = "contact_page"
)

// Section is one block of a page, rendered in Order.
type Section struct {
	Title    string `json:"title" bson:"title" validate:"max=200,no_xss"`
	Content  string `json:"content" bson:"content" validate:"max=20000"`
	ImageURL string `json:"imageUrl" bson:"imageUrl" validate:"omitempty,url"`
	Order    int    `json:"order" bson:"order" validate:"min=0"`
}

// ContentManagement holds the editable sections of a site page.
type ContentManagement struct {
	basemodels.Managed `bson:",inline"`
	Type               string         `json:"type" bson:"type" index:"single" validate:"required,oneof=home_page about_page ventures_page initiatives_page news_page contact_page"`
	Subtitle           string         `json:"subtitle" bson:"subtitle" validate:"max=300"`
	Sections           []Section      `json:"sections" bson:"sections" validate:"max=50,dive"`
	Seo                basemodels.Seo `json:"seo" bson:"seo"`
}
