package survey

import (
	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// branching is Q1 (single choice, A1=5, A2=3) with Q2 (free text) shown
// when A1 is picked, and Q3 (multiple choice, B1=2, B2=-1) shown under Q2
// on a trigger Q2 can never select. Q4 is a second root.
type branching struct {
	survey         *model.Survey
	q1, q2, q3, q4 uuid.UUID
	a1, a2, b1, b2 uuid.UUID
	c1             uuid.UUID
}

func newBranching() *branching {
	b := &branching{
		q1: uuid.New(), q2: uuid.New(), q3: uuid.New(), q4: uuid.New(),
		a1: uuid.New(), a2: uuid.New(), b1: uuid.New(), b2: uuid.New(), c1: uuid.New(),
	}
	sid := uuid.New()
	b.survey = &model.Survey{
		ID:    sid,
		Title: "Branching",
		Questions: []model.Question{
			{
				ID: b.q1, SurveyID: sid, Text: "Q1", Type: model.SingleChoice,
				AnswerOptions: []model.AnswerOption{
					{ID: b.a1, QuestionID: b.q1, Text: "A1", Weight: 5},
					{ID: b.a2, QuestionID: b.q1, Text: "A2", Weight: 3},
				},
			},
			{
				ID: b.q2, SurveyID: sid, Text: "Q2", Type: model.FreeText,
				ParentQuestionID: ptr(b.q1), TriggeringAnswerOptionID: ptr(b.a1),
			},
			{
				ID: b.q3, SurveyID: sid, Text: "Q3", Type: model.MultipleChoice,
				ParentQuestionID: ptr(b.q4), TriggeringAnswerOptionID: ptr(b.c1),
				AnswerOptions: []model.AnswerOption{
					{ID: b.b1, QuestionID: b.q3, Text: "B1", Weight: 2},
					{ID: b.b2, QuestionID: b.q3, Text: "B2", Weight: -1},
				},
			},
			{
				ID: b.q4, SurveyID: sid, Text: "Q4", Type: model.SingleChoice,
				AnswerOptions: []model.AnswerOption{
					{ID: b.c1, QuestionID: b.q4, Text: "C1", Weight: 1},
				},
			},
		},
	}
	return b
}

func ptr[T any](v T) *T {
	return &v
}

func ids(qs []*model.Question) []uuid.UUID {
	out := make([]uuid.UUID, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
