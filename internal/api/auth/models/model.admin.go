// Package models holds the admin account and its token claims.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "zeniverse_api/internal/api/base/models"
)

// Admin is a back office account. Password holds the bcrypt hash and is
// never serialized.
type Admin struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username" index:"unique"`
	Email       string             `json:"email" bson:"email" index:"unique"`
	Password    string             `json:"-" bson:"password"`
	Role        string             `json:"role" bson:"role" index:"single"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	LastLoginAt *int64             `json:"lastLoginAt" bson:"lastLoginAt"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Principal is the identity the middleware stores for the request.
func (a *Admin) Principal() *basemodels.Principal {
	return &basemodels.Principal{ID: a.ID, Username: a.Username, Role: a.Role}
}

// AuthorRef is the public projection shown on managed records.
func (a *Admin) AuthorRef() *basemodels.AuthorRef {
	return &basemodels.AuthorRef{ID: a.ID, Username: a.Username, Email: a.Email}
}
