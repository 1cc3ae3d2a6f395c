package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin roles.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Principal is the authenticated actor resolved from a bearer token.
type Principal struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Role     string             `json:"role"`
}

// IsAdminOrAbove reports whether p may manage content.
func (p *Principal) IsAdminOrAbove() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleSuperAdmin)
}

// IsSuperAdmin reports whether p may manage other admins.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}
