// Package portfoliodto holds the request bodies of news, initiatives and
// ventures. Update inputs use pointers: a nil field is left untouched.
package portfoliodto

import (
	basemodels "zeniverse_api/internal/api/base/models"
	models "zeniverse_api/internal/api/portfolio/models"
)

type NewsCreateInput struct {
	Title       string               `json:"title" validate:"required"`
	Summary     string               `json:"summary"`
	Body        string               `json:"body"`
	Category    string               `json:"category"`
	Tags        []string             `json:"tags"`
	CoverImage  *basemodels.MediaRef `json:"coverImage"`
	AuthorName  string               `json:"authorName"`
	IsFeatured  bool                 `json:"isFeatured"`
	Version     string               `json:"version"`
	IsPublished bool                 `json:"isPublished"`
}

// ToModel maps the input onto a new record.
func (in *NewsCreateInput) ToModel() *models.News {
	doc := &models.News{
		Summary:    in.Summary,
		Body:       in.Body,
		Category:   in.Category,
		Tags:       in.Tags,
		AuthorName: in.AuthorName,
		IsFeatured: in.IsFeatured,
	}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	if in.CoverImage != nil {
		doc.CoverImage = *in.CoverImage
	}
	return doc
}

type NewsUpdateInput struct {
	Title       *string              `json:"title" bson:"title,omitempty"`
	Summary     *string              `json:"summary" bson:"summary,omitempty"`
	Body        *string              `json:"body" bson:"body,omitempty"`
	Category    *string              `json:"category" bson:"category,omitempty"`
	Tags        *[]string            `json:"tags" bson:"tags,omitempty"`
	CoverImage  *basemodels.MediaRef `json:"coverImage" bson:"coverImage,omitempty"`
	AuthorName  *string              `json:"authorName" bson:"authorName,omitempty"`
	IsFeatured  *bool                `json:"isFeatured" bson:"isFeatured,omitempty"`
	Version     *string              `json:"version" bson:"version,omitempty"`
	IsPublished *bool                `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt *int64               `json:"publishedAt" bson:"publishedAt,omitempty"`
}

type InitiativeCreateInput struct {
	Title       string               `json:"title" validate:"required"`
	Summary     string               `json:"summary"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Status      string               `json:"status"`
	Image       *basemodels.MediaRef `json:"image"`
	Order       int                  `json:"order"`
	Version     string               `json:"version"`
	IsPublished bool                 `json:"isPublished"`
}

// ToModel maps the input onto a new record. Status defaults to planned.
func (in *InitiativeCreateInput) ToModel() *models.Initiative {
	doc := &models.Initiative{
		Summary:     in.Summary,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		Order:       in.Order,
	}
	if doc.Status == "" {
		doc.Status = models.InitiativePlanned
	}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	if in.Image != nil {
		doc.Image = *in.Image
	}
	return doc
}

type InitiativeUpdateInput struct {
	Title       *string              `json:"title" bson:"title,omitempty"`
	Summary     *string              `json:"summary" bson:"summary,omitempty"`
	Description *string              `json:"description" bson:"description,omitempty"`
	Category    *string              `json:"category" bson:"category,omitempty"`
	Status      *string              `json:"status" bson:"status,omitempty"`
	Image       *basemodels.MediaRef `json:"image" bson:"image,omitempty"`
	Order       *int                 `json:"order" bson:"order,omitempty"`
	Version     *string              `json:"version" bson:"version,omitempty"`
	IsPublished *bool                `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt *int64               `json:"publishedAt" bson:"publishedAt,omitempty"`
}

type VentureCreateInput struct {
	Title       string               `json:"title" validate:"required"`
	Tagline     string               `json:"tagline"`
	Description string               `json:"description"`
	Industry    string               `json:"industry"`
	Stage       string               `json:"stage" validate:"required"`
	FoundedYear int                  `json:"foundedYear"`
	WebsiteURL  string               `json:"websiteUrl"`
	Logo        *basemodels.MediaRef `json:"logo"`
	IsFeatured  bool                 `json:"isFeatured"`
	Order       int                  `json:"order"`
	Version     string               `json:"version"`
	IsPublished bool                 `json:"isPublished"`
}

// ToModel maps the input onto a new record.
func (in *VentureCreateInput) ToModel() *models.Venture {
	doc := &models.Venture{
		Tagline:     in.Tagline,
		Description: in.Description,
		Industry:    in.Industry,
		Stage:       in.Stage,
		FoundedYear: in.FoundedYear,
		WebsiteURL:  in.WebsiteURL,
		IsFeatured:  in.IsFeatured,
		Order:       in.Order,
	}
	doc.Title = in.Title
	doc.Version = in.Version
	doc.IsPublished = in.IsPublished
	if in.Logo != nil {
		doc.Logo = *in.Logo
	}
	return doc
}

type VentureUpdateInput struct {
	Title       *string              `json:"title" bson:"title,omitempty"`
	Tagline     *string              `json:"tagline" bson:"tagline,omitempty"`
	Description *string              `json:"description" bson:"description,omitempty"`
	Industry    *string              `json:"industry" bson:"industry,omitempty"`
	Stage       *string              `json:"stage" bson:"stage,omitempty"`
	FoundedYear *int                 `json:"foundedYear" bson:"foundedYear,omitempty"`
	WebsiteURL  *string              `json:"websiteUrl" bson:"websiteUrl,omitempty"`
	Logo        *basemodels.MediaRef `json:"logo" bson:"logo,omitempty"`
	IsFeatured  *bool                `json:"isFeatured" bson:"isFeatured,omitempty"`
	Order       *int                 `json:"order" bson:"order,omitempty"`
	Version     *string              `json:"version" bson:"version,omitempty"`
	IsPublished *bool                `json:"isPublished" bson:"isPublished,omitempty"`
	PublishedAt *int64               `json:"publishedAt" bson:"publishedAt,omitempty"`
}
