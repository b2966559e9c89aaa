package survey

import (
	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// CheckGraph verifies the parent and trigger links of a survey: parents
// are other questions of the same survey, triggers belong to the parent,
// and parent chains end at a root question.
func CheckGraph(s *model.Survey) error {
	byID := make(map[uuid.UUID]*model.Question, len(s.Questions))
	for i := range s.Questions {
		q := &s.Questions[i]
		if _, dup := byID[q.ID]; dup {
			return Invalidf("question %s appears more than once", q.ID)
		}
		byID[q.ID] = q
	}

	for i := range s.Questions {
		q := &s.Questions[i]
		if q.ParentQuestionID == nil {
			if q.TriggeringAnswerOptionID != nil {
				return Invalidf("question %s has a triggering answer option but no parent question", q.ID)
			}
			continue
		}
		parent, ok := byID[*q.ParentQuestionID]
		if !ok || parent.ID == q.ID {
			return Invalidf("question %s references parent question %s, which is not another question in this survey", q.ID, *q.ParentQuestionID)
		}
		if q.TriggeringAnswerOptionID != nil && parent.Option(*q.TriggeringAnswerOptionID) == nil {
			return Invalidf("triggering answer option %s of question %s does not belong to parent question %s", *q.TriggeringAnswerOptionID, q.ID, parent.ID)
		}
	}

	// Every chain of parents must reach a root within len(questions) steps.
	for i := range s.Questions {
		q := &s.Questions[i]
		cur := q
		for steps := 0; cur.ParentQuestionID != nil; steps++ {
			if steps >= len(byID) {
				return Invalidf("question %s is part of a parent cycle", q.ID)
			}
			cur = byID[*cur.ParentQuestionID]
		}
	}
	return nil
}
