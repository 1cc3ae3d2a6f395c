package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// ContactDetail is one way to reach the company.
type ContactDetail struct {
	Label     string `json:"label" bson:"label" validate:"required,max=100"`
	Kind      string `json:"kind" bson:"kind" validate:"required,oneof=email phone address other"`
	Value     string `json:"value" bson:"value" validate:"required,max=500,no_xss"`
	IsPrimary bool   `json:"isPrimary" bson:"isPrimary"`
}

// SocialLink is a profile on a social platform.
type SocialLink struct {
	Platform string `json:"platform" bson:"platform" validate:"required,max=50"`
	URL      string `json:"url" bson:"url" validate:"required,url"`
	Icon     string `json:"icon" bson:"icon" validate:"max=100"`
}

// ContactSocial is the site wide contact block. Only one record may be
// published.
type ContactSocial struct {
	basemodels.Managed `bson:",inline"`
	ContactDetails     []ContactDetail `json:"contactDetails" bson:"contactDetails" validate:"max=30,dive"`
	SocialLinks        []SocialLink    `json:"socialLinks" bson:"socialLinks" validate:"max=30,dive"`
}
