package model

import "github.com/google/uuid"

// swagger:model AnswerOption
type AnswerOption struct {
	ID         uuid.UUID `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuestionID uuid.UUID `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string    `gorm:"size:500;not null" json:"text"`
	Weight     int       `gorm:"not null;default:0" json:"weight"`
	Position   int       `gorm:"not null;default:0" json:"-"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
