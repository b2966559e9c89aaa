package survey

import (
	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// CreateAnswerOptionRequest describes an option by a request-scoped local id.
type CreateAnswerOptionRequest struct {
	LocalID string `json:"localId" binding:"required"`
	Text    string `json:"text" binding:"required"`
	Weight  int    `json:"weight" binding:"gte=0"`
}

// CreateQuestionRequest links to its parent and trigger through local ids.
type CreateQuestionRequest struct {
	LocalID                 string                      `json:"localId" binding:"required"`
	Text                    string                      `json:"text" binding:"required"`
	Type                    model.QuestionType          `json:"type" binding:"questiontype"`
	ParentLocalID           *string                     `json:"parentLocalId"`
	TriggeringAnswerLocalID *string                     `json:"triggeringAnswerLocalId"`
	AnswerOptions           []CreateAnswerOptionRequest `json:"answerOptions" binding:"dive"`
}

type CreateSurveyRequest struct {
	Title     string                  `json:"title" binding:"required,max=200"`
	Questions []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type UpdateAnswerOptionRequest struct {
	ID     uuid.UUID `json:"id"`
	Text   string    `json:"text" binding:"required,max=500"`
	Weight int       `json:"weight" binding:"gte=-100,lte=100"`
}

type UpdateQuestionRequest struct {
	ID                       uuid.UUID                   `json:"id"`
	Text                     string                      `json:"text" binding:"required,max=1000"`
	Type                     model.QuestionType          `json:"type" binding:"questiontype"`
	ParentQuestionID         *uuid.UUID                  `json:"parentQuestionId"`
	TriggeringAnswerOptionID *uuid.UUID                  `json:"triggeringAnswerOptionId"`
	AnswerOptions            []UpdateAnswerOptionRequest `json:"answerOptions" binding:"dive"`
}

// UpdateSurveyRequest is the desired state of a survey. A zero id on a
// question or option asks for a new entity.
type UpdateSurveyRequest struct {
	ID        uuid.UUID               `json:"id"`
	Title     string                  `json:"title" binding:"required,max=200"`
	Questions []UpdateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type SubmitAnswerRequest struct {
	QuestionID        uuid.UUID   `json:"questionId" binding:"required"`
	SelectedOptionIDs []uuid.UUID `json:"selectedOptionIds" binding:"unique"`
	FreeTextAnswer    *string     `json:"freeTextAnswer"`
}

type SubmitResponseRequest struct {
	SurveyID uuid.UUID             `json:"surveyId"`
	Answers  []SubmitAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// AnswerMap holds the selected option ids per answered question.
type AnswerMap map[uuid.UUID][]uuid.UUID

// AnswerMapOf reduces submitted answers to their selected option ids.
func AnswerMapOf(answers []SubmitAnswerRequest) AnswerMap {
	m := make(AnswerMap, len(answers))
	for _, a := range answers {
		m[a.QuestionID] = a.SelectedOptionIDs
	}
	return m
}
