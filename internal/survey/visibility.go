package survey

import (
	"slices"

	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// QuestionSet is a set of question ids.
type QuestionSet map[uuid.UUID]struct{}

func (s QuestionSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// VisibleQuestions walks the question graph breadth first from the root
// questions. A child becomes visible only when its parent is visible, has
// an entry in answers, and that entry selects the child's trigger option.
// The result is in discovery order.
func VisibleQuestions(s *model.Survey, answers AnswerMap) []*model.Question {
	children := make(map[uuid.UUID][]*model.Question)
	var queue []*model.Question
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.IsRoot() {
			queue = append(queue, q)
			continue
		}
		children[*q.ParentQuestionID] = append(children[*q.ParentQuestionID], q)
	}

	seen := make(QuestionSet, len(s.Questions))
	visible := make([]*model.Question, 0, len(queue))
	for _, q := range queue {
		seen[q.ID] = struct{}{}
		visible = append(visible, q)
	}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		selected, answered := answers[parent.ID]
		if !answered {
			continue
		}
		for _, child := range children[parent.ID] {
			if child.TriggeringAnswerOptionID == nil || seen.Has(child.ID) {
				continue
			}
			if slices.Contains(selected, *child.TriggeringAnswerOptionID) {
				seen[child.ID] = struct{}{}
				visible = append(visible, child)
				queue = append(queue, child)
			}
		}
	}
	return visible
}

// VisibleSet is VisibleQuestions reduced to ids.
func VisibleSet(s *model.Survey, answers AnswerMap) QuestionSet {
	qs := VisibleQuestions(s, answers)
	set := make(QuestionSet, len(qs))
	for _, q := range qs {
		set[q.ID] = struct{}{}
	}
	return set
}
