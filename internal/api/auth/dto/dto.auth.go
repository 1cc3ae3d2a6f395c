package authdto

import (
	models "zeniverse_api/internal/api/auth/models"
)

// LoginInput accepts a username or an email in Username.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expiresAt"`
	Admin     *models.Admin `json:"admin"`
}

// ChangePasswordInput changes the caller's own password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password,nefield=CurrentPassword"`
}

// AdminCreateInput creates an account. Role defaults to admin.
type AdminCreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role" validate:"omitempty,oneof=super_admin admin"`
}

// AdminUpdateInput changes the fields a super admin manages. Nil fields stay.
type AdminUpdateInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=super_admin admin"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" validate:"omitempty,strong_password"`
}
