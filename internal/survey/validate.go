package survey

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// ValidateResponse checks submitted answers against the survey graph and,
// when they pass, builds the response to persist. Checks run in order and
// the first failure is returned: duplicate questions, unknown question,
// foreign options, invisible question, then per-type cardinality.
func ValidateResponse(s *model.Survey, answers []SubmitAnswerRequest, submittedAt time.Time) (*model.SurveyResponse, error) {
	if dups := duplicateQuestions(answers); len(dups) > 0 {
		return nil, Invalidf("duplicate answers found for question(s): %s", joinIDs(dups))
	}

	questions := make(map[uuid.UUID]*model.Question, len(s.Questions))
	for i := range s.Questions {
		questions[s.Questions[i].ID] = &s.Questions[i]
	}
	visible := VisibleSet(s, AnswerMapOf(answers))

	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, notAnswerable(a.QuestionID)
		}

		var foreign []uuid.UUID
		for _, id := range a.SelectedOptionIDs {
			if q.Option(id) == nil {
				foreign = append(foreign, id)
			}
		}
		if len(foreign) > 0 {
			return nil, Invalidf("invalid answer option(s) %s for question %s", joinIDs(foreign), q.ID)
		}

		if !visible.Has(q.ID) {
			return nil, notAnswerable(q.ID)
		}
		if err := CheckCardinality(q, a); err != nil {
			return nil, err
		}
	}

	resp := &model.SurveyResponse{
		ID:          NewID(),
		SurveyID:    s.ID,
		SubmittedAt: submittedAt.UTC(),
		Answers:     make([]model.SubmittedAnswer, 0, len(answers)),
	}
	for _, a := range answers {
		q := questions[a.QuestionID]
		sa := model.SubmittedAnswer{
			ID:               NewID(),
			SurveyResponseID: resp.ID,
			QuestionID:       q.ID,
			SelectedOptions:  make([]model.AnswerOption, 0, len(a.SelectedOptionIDs)),
		}
		if q.Type == model.FreeText {
			sa.FreeTextAnswer = a.FreeTextAnswer
		}
		for _, id := range a.SelectedOptionIDs {
			sa.SelectedOptions = append(sa.SelectedOptions, *q.Option(id))
		}
		resp.Answers = append(resp.Answers, sa)
	}
	return resp, nil
}

func notAnswerable(id uuid.UUID) error {
	return Invalidf("an answer was submitted for question %s, which does not exist or is not visible", id)
}

func duplicateQuestions(answers []SubmitAnswerRequest) []uuid.UUID {
	counts := make(map[uuid.UUID]int, len(answers))
	var dups []uuid.UUID
	for _, a := range answers {
		counts[a.QuestionID]++
		if counts[a.QuestionID] == 2 {
			dups = append(dups, a.QuestionID)
		}
	}
	return dups
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
