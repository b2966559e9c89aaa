package model

import "github.com/google/uuid"

// QuestionType is serialized as its integer value:
// 0 single choice, 1 multiple choice, 2 free text.
type QuestionType int

const (
	SingleChoice QuestionType = iota
	MultipleChoice
	FreeText
)

func (t QuestionType) String() string {
	switch t {
	case SingleChoice:
		return "SingleChoice"
	case MultipleChoice:
		return "MultipleChoice"
	case FreeText:
		return "FreeText"
	default:
		return "Unknown"
	}
}

func (t QuestionType) Valid() bool {
	return t >= SingleChoice && t <= FreeText
}

// IsChoice reports whether answers to the question select options.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// swagger:model Question
type Question struct {
	ID                       uuid.UUID      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SurveyID                 uuid.UUID      `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	Text                     string         `gorm:"size:1000;not null" json:"text"`
	Type                     QuestionType   `gorm:"not null;default:0" json:"type"`
	ParentQuestionID         *uuid.UUID     `gorm:"index;type:varchar(36)" json:"parentQuestionId"`
	TriggeringAnswerOptionID *uuid.UUID     `gorm:"type:varchar(36)" json:"triggeringAnswerOptionId"`
	AnswerOptions            []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answerOptions"`
	// Position keeps insertion order for reads. It is assigned on insert only.
	Position int `gorm:"not null;default:0" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// IsRoot reports whether the question has no parent and is therefore always visible.
func (q *Question) IsRoot() bool {
	return q.ParentQuestionID == nil
}

// Option returns the option with the given id, or nil.
func (q *Question) Option(id uuid.UUID) *AnswerOption {
	for i := range q.AnswerOptions {
		if q.AnswerOptions[i].ID == id {
			return &q.AnswerOptions[i]
		}
	}
	return nil
}
