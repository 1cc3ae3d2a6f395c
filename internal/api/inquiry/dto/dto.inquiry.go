// Package inquirydto holds the inquiry request bodies.
package inquirydto

import (
	"strings"

	models "zeniverse_api/internal/api/inquiry/models"
)

// InquiryCreateInput is the public contact form.
type InquiryCreateInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Subject     string `json:"subject" validate:"required"`
	Message     string `json:"message" validate:"required"`
	InquiryType string `json:"inquiryType" validate:"omitempty,oneof=general partnership investment media careers"`
}

// ToModel maps the form onto a new inquiry in status new.
func (in *InquiryCreateInput) ToModel() *models.Inquiry {
	typ := in.InquiryType
	if typ == "" {
		typ = models.TypeGeneral
	}
	return &models.Inquiry{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Company:     strings.TrimSpace(in.Company),
		Subject:     strings.TrimSpace(in.Subject),
		Message:     strings.TrimSpace(in.Message),
		InquiryType: typ,
		Status:      models.StatusNew,
	}
}

// InquiryStatusInput moves an inquiry through the back office workflow.
type InquiryStatusInput struct {
	Status string  `json:"status" validate:"required,oneof=new in_progress resolved archived"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}
