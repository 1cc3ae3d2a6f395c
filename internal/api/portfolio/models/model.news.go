// Package models holds the portfolio families: news, initiatives and
// ventures. None of them limits how many records are published.
package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// News is an article written in markdown.
type News struct {
	basemodels.Managed `bson:",inline"`
	Summary            string              `json:"summary" bson:"summary" validate:"max=500"`
	Body               string              `json:"body" bson:"body" validate:"max=200000"`
	BodyHTML           string              `json:"bodyHtml" bson:"bodyHtml"`
	Category           string              `json:"category" bson:"category" index:"single" validate:"max=50"`
	Tags               []string            `json:"tags" bson:"tags" validate:"max=20,dive,max=40"`
	CoverImage         basemodels.MediaRef `json:"coverImage" bson:"coverImage"`
	AuthorName         string              `json:"authorName" bson:"authorName" validate:"max=100"`
	IsFeatured         bool                `json:"isFeatured" bson:"isFeatured" index:"single"`
}
