// Package models holds the types shared by every managed record family:
// publish state, audit references, list results and the request principal.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Managed is embedded inline by every publishable family (Content, News,
// Venture, ...). Payload fields live on the family struct.
type Managed struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title          string              `json:"title" bson:"title" validate:"required,min=1,max=200,no_xss"`
	Slug           string              `json:"slug" bson:"slug" index:"unique" validate:"required,slug"`
	IsPublished    bool                `json:"isPublished" bson:"isPublished" index:"single"`
	PublishedAt    *int64              `json:"publishedAt" bson:"publishedAt"`
	Version        string              `json:"version" bson:"version" validate:"max=50"`
	CreatedBy      *primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	LastModifiedBy *primitive.ObjectID `json:"lastModifiedBy" bson:"lastModifiedBy"`
	CreatedAt      int64               `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt      int64               `json:"updatedAt" bson:"updatedAt"`

	// resolved for display, never stored
	Creator  *AuthorRef `json:"creator,omitempty" bson:"-"`
	Modifier *AuthorRef `json:"modifier,omitempty" bson:"-"`
}

// GetManaged lets generic services reach the embedded fields.
func (m *Managed) GetManaged() *Managed {
	return m
}

// AuthorRef is the public projection of an admin attached to a record.
type AuthorRef struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

// Seo is the optional search metadata block of page-like families.
type Seo struct {
	MetaTitle       string   `json:"metaTitle" bson:"metaTitle" validate:"max=70"`
	MetaDescription string   `json:"metaDescription" bson:"metaDescription" validate:"max=160"`
	Keywords        []string `json:"keywords" bson:"keywords" validate:"max=20,dive,max=50"`
	OgImage         string   `json:"ogImage" bson:"ogImage" validate:"omitempty,url"`
}

// MediaRef points at an asset stored on the media host.
type MediaRef struct {
	URL      string `json:"url" bson:"url" validate:"omitempty,url"`
	PublicID string `json:"publicId" bson:"publicId"`
	Alt      string `json:"alt" bson:"alt" validate:"max=200"`
}
