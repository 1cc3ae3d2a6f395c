package models

import (
	basemodels "zeniverse_api/internal/api/base/models"
)

// Initiative statuses.
const (
	InitiativePlanned   = "planned"
	InitiativeActive    = "active"
	InitiativeCompleted = "completed"
)

// Initiative is a program the group runs.
type Initiative struct {
	basemodels.Managed `bson:",inline"`
	Summary            string              `json:"summary" bson:"summary" validate:"max=500"`
	Description        string              `json:"description" bson:"description" validate:"max=20000"`
	Category           string              `json:"category" bson:"category" index:"single" validate:"max=50"`
	Status             string              `json:"status" bson:"status" index:"single" validate:"required,oneof=planned active completed"`
	Image              basemodels.MediaRef `json:"image" bson:"image"`
	Order              int                 `json:"order" bson:"order" validate:"min=0"`
}
