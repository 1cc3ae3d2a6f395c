package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// Venture stages.
const (
	StageIdea   = "idea"
	StageSeed   = "seed"
	StageGrowth = "growth"
	StageScale  = "scale"
	StageExited = "exited"
)

// Venture is a portfolio company.
type Venture struct {
	basemodels.Managed `bson:",inline"`
	Tagline            string              `json:"tagline" bson:"tagline" validate:"max=200,no_xss"`
	Description        string              `json:"description" bson:"description" validate:"max=20000"`
	Industry           string              `json:"industry" bson:"industry" index:"single" validate:"max=80"`
	Stage              string              `json:"stage" bson:"stage" index:"single" validate:"required,oneof=idea seed growth scale exited"`
	FoundedYear        int                 `json:"foundedYear" bson:"foundedYear" validate:"omitempty,min=1900,max=2100"`
	WebsiteURL         string              `json:"websiteUrl" bson:"websiteUrl" validate:"omitempty,url"`
	Logo               basemodels.MediaRef `json:"logo" bson:"logo"`
	IsFeatured         bool                `json:"isFeatured" bson:"isFeatured" index:"single"`
	Order              int                 `json:"order" bson:"order" validate:"min=0"`
}
