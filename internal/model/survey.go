package model

import (
	"time"

	"github.com/google/uuid"
)

// swagger:model Survey
type Survey struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Questions []Question `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Survey) TableName() string {
	return "surveys"
}

// SurveyStatus is derived from whether any response references the survey.
type SurveyStatus string

const (
	// SurveyDraft surveys can still be updated or deleted.
	SurveyDraft SurveyStatus = "draft"
	// SurveyClosed surveys have at least one response and are frozen.
	SurveyClosed SurveyStatus = "closed"
)

func StatusFor(hasResponses bool) SurveyStatus {
	if hasResponses {
		return SurveyClosed
	}
	return SurveyDraft
}
