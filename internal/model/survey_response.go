package model

import (
	"time"

	"github.com/google/uuid"
)

// SurveyResponse is written once at submission and never updated.
// swagger:model SurveyResponse
type SurveyResponse struct {
	ID          uuid.UUID         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SurveyID    uuid.UUID         `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	SubmittedAt time.Time         `gorm:"not null" json:"submittedAt"`
	Answers     []SubmittedAnswer `gorm:"foreignKey:SurveyResponseID" json:"answers"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// SubmittedAnswer references the selected options through the
// submitted_answer_options join table; options are never copied.
// swagger:model SubmittedAnswer
type SubmittedAnswer struct {
	ID               uuid.UUID      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SurveyResponseID uuid.UUID      `gorm:"index;type:varchar(36);not null" json:"surveyResponseId"`
	QuestionID       uuid.UUID      `gorm:"index;type:varchar(36);not null" json:"questionId"`
	FreeTextAnswer   *string        `gorm:"type:text" json:"freeTextAnswer"`
	SelectedOptions  []AnswerOption `gorm:"many2many:submitted_answer_options;" json:"selectedOptions"`
}

func (SubmittedAnswer) TableName() string {
	return "submitted_answers"
}
