// Package models holds the contact inquiry record.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Inquiry types.
const (
	TypeGeneral     = "general"
	TypePartnership = "partnership"
	TypeInvestment  = "investment"
	TypeMedia       = "media"
	TypeCareers     = "careers"
)

// Inquiry statuses.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusArchived   = "archived"
)

// Statuses lists every status in workflow order.
var Statuses = []string{StatusNew, StatusInProgress, StatusResolved, StatusArchived}

// Inquiry is a message sent through the public contact form.
type Inquiry struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,min=2,max=100,no_xss"`
	Email       string             `json:"email" bson:"email" index:"single" validate:"required,email,max=254"`
	Phone       string             `json:"phone" bson:"phone" validate:"max=30"`
	Company     string             `json:"company" bson:"company" validate:"max=150,no_xss"`
	Subject     string             `json:"subject" bson:"subject" validate:"required,min=2,max=200,no_xss"`
	Message     string             `json:"message" bson:"message" validate:"required,min=10,max=5000"`
	InquiryType string             `json:"inquiryType" bson:"inquiryType" index:"single" validate:"required,oneof=general partnership investment media careers"`
	Status      string             `json:"status" bson:"status" index:"single" validate:"required,oneof=new in_progress resolved archived"`
	Notes       string             `json:"notes" bson:"notes" validate:"max=5000"`
	IPAddress   string             `json:"ipAddress" bson:"ipAddress"`
	UserAgent   string             `json:"userAgent" bson:"userAgent"`
	RespondedAt *int64             `json:"respondedAt" bson:"respondedAt"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Stats counts inquiries overall and per status.
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
