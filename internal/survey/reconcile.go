package survey

import (
	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// Plan is the set of row changes that turns the persisted survey into the
// desired one. Entities whose content is unchanged appear in no set.
type Plan struct {
	SurveyID          uuid.UUID
	Title             *string
	InsertQuestions   []model.Question
	UpdateQuestions   []model.Question
	DeleteQuestionIDs []uuid.UUID
	InsertOptions     []model.AnswerOption
	UpdateOptions     []model.AnswerOption
	DeleteOptionIDs   []uuid.UUID
}

// Empty reports whether applying the plan would change nothing.
func (p *Plan) Empty() bool {
	return p.Title == nil &&
		len(p.InsertQuestions) == 0 && len(p.UpdateQuestions) == 0 && len(p.DeleteQuestionIDs) == 0 &&
		len(p.InsertOptions) == 0 && len(p.UpdateOptions) == 0 && len(p.DeleteOptionIDs) == 0
}

// NewIDs lists the ids the plan inserts, which must not already belong to
// another survey.
func (p *Plan) NewIDs() (questions, options []uuid.UUID) {
	for _, q := range p.InsertQuestions {
		questions = append(questions, q.ID)
	}
	for _, o := range p.InsertOptions {
		options = append(options, o.ID)
	}
	return questions, options
}

// Reconcile diffs the desired state against the persisted survey by id.
// Persisted entities missing from the desired state are deleted, matching
// ids are updated in place and the rest are inserted. A zero id gets a new
// id; any other unknown id is kept as supplied. It returns the plan and
// the resulting survey graph.
func Reconcile(current *model.Survey, desired UpdateSurveyRequest) (*Plan, *model.Survey, error) {
	plan := &Plan{SurveyID: current.ID}
	if current.Title != desired.Title {
		title := desired.Title
		plan.Title = &title
	}

	persisted := make(map[uuid.UUID]*model.Question, len(current.Questions))
	for i := range current.Questions {
		persisted[current.Questions[i].ID] = &current.Questions[i]
	}

	next := &model.Survey{
		ID:        current.ID,
		Title:     desired.Title,
		CreatedAt: current.CreatedAt,
		UpdatedAt: current.UpdatedAt,
		Questions: make([]model.Question, 0, len(desired.Questions)),
	}

	keptQuestions := make(map[uuid.UUID]struct{}, len(desired.Questions))
	seenOptions := make(map[uuid.UUID]struct{})

	for _, dq := range desired.Questions {
		id := dq.ID
		if id == uuid.Nil {
			id = NewID()
		}
		if _, dup := keptQuestions[id]; dup {
			return nil, nil, Invalidf("question %s appears more than once", id)
		}
		keptQuestions[id] = struct{}{}

		q := model.Question{
			ID:                       id,
			SurveyID:                 current.ID,
			Text:                     dq.Text,
			Type:                     dq.Type,
			ParentQuestionID:         dq.ParentQuestionID,
			TriggeringAnswerOptionID: dq.TriggeringAnswerOptionID,
		}

		old, exists := persisted[id]
		if exists {
			q.Position = old.Position
		}
		switch {
		case !exists:
			plan.InsertQuestions = append(plan.InsertQuestions, q)
		case !sameQuestion(old, &q):
			plan.UpdateQuestions = append(plan.UpdateQuestions, q)
		}

		oldOptions := make(map[uuid.UUID]*model.AnswerOption)
		if exists {
			for i := range old.AnswerOptions {
				oldOptions[old.AnswerOptions[i].ID] = &old.AnswerOptions[i]
			}
		}

		for _, do := range dq.AnswerOptions {
			oid := do.ID
			if oid == uuid.Nil {
				oid = NewID()
			}
			if _, dup := seenOptions[oid]; dup {
				return nil, nil, Invalidf("answer option %s appears more than once", oid)
			}
			seenOptions[oid] = struct{}{}

			o := model.AnswerOption{ID: oid, QuestionID: id, Text: do.Text, Weight: do.Weight}
			prev, ok := oldOptions[oid]
			if ok {
				o.Position = prev.Position
			}
			switch {
			case !ok:
				plan.InsertOptions = append(plan.InsertOptions, o)
			case prev.Text != o.Text || prev.Weight != o.Weight:
				plan.UpdateOptions = append(plan.UpdateOptions, o)
			}
			delete(oldOptions, oid)
			q.AnswerOptions = append(q.AnswerOptions, o)
		}

		// Options left over were dropped from a surviving question.
		if exists {
			for _, o := range old.AnswerOptions {
				if _, left := oldOptions[o.ID]; left {
					plan.DeleteOptionIDs = append(plan.DeleteOptionIDs, o.ID)
				}
			}
		}
		next.Questions = append(next.Questions, q)
	}

	for i := range current.Questions {
		q := &current.Questions[i]
		if _, kept := keptQuestions[q.ID]; kept {
			continue
		}
		plan.DeleteQuestionIDs = append(plan.DeleteQuestionIDs, q.ID)
		for _, o := range q.AnswerOptions {
			plan.DeleteOptionIDs = append(plan.DeleteOptionIDs, o.ID)
		}
	}

	return plan, next, nil
}

func sameQuestion(a, b *model.Question) bool {
	return a.Text == b.Text &&
		a.Type == b.Type &&
		sameRef(a.ParentQuestionID, b.ParentQuestionID) &&
		sameRef(a.TriggeringAnswerOptionID, b.TriggeringAnswerOptionID)
}

func sameRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
