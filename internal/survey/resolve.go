package survey

import (
	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// UnresolvedRef records a link that could not be resolved and was left unset.
type UnresolvedRef struct {
	QuestionLocalID string
	Field           string
	LocalID         string
}

const (
	FieldParent  = "parentLocalId"
	FieldTrigger = "triggeringAnswerLocalId"
)

// NewID mints durable identifiers. Tests may replace it.
var NewID = model.GenerateID

// Resolve builds a linked survey graph from a creation request, replacing
// local ids with freshly generated ids. Links whose local id is empty or
// unknown are left unset; non-empty ones are reported as UnresolvedRef.
func Resolve(req CreateSurveyRequest) (*model.Survey, []UnresolvedRef, error) {
	s := &model.Survey{
		ID:        NewID(),
		Title:     req.Title,
		Questions: make([]model.Question, 0, len(req.Questions)),
	}

	questionIDs := make(map[string]uuid.UUID, len(req.Questions))
	optionIDs := make(map[string]uuid.UUID)

	for qi, qr := range req.Questions {
		if _, dup := questionIDs[qr.LocalID]; dup {
			return nil, nil, Invalidf("duplicate question localId %q", qr.LocalID)
		}
		q := model.Question{
			ID:            NewID(),
			SurveyID:      s.ID,
			Text:          qr.Text,
			Type:          qr.Type,
			Position:      qi,
			AnswerOptions: make([]model.AnswerOption, 0, len(qr.AnswerOptions)),
		}
		questionIDs[qr.LocalID] = q.ID

		for oi, or := range qr.AnswerOptions {
			if _, dup := optionIDs[or.LocalID]; dup {
				return nil, nil, Invalidf("duplicate answer option localId %q", or.LocalID)
			}
			o := model.AnswerOption{
				ID:         NewID(),
				QuestionID: q.ID,
				Text:       or.Text,
				Weight:     or.Weight,
				Position:   oi,
			}
			optionIDs[or.LocalID] = o.ID
			q.AnswerOptions = append(q.AnswerOptions, o)
		}
		s.Questions = append(s.Questions, q)
	}

	var unresolved []UnresolvedRef
	for i, qr := range req.Questions {
		q := &s.Questions[i]

		parentLocal := deref(qr.ParentLocalID)
		if parentLocal != "" {
			if id, ok := questionIDs[parentLocal]; ok {
				q.ParentQuestionID = &id
			} else {
				unresolved = append(unresolved, UnresolvedRef{qr.LocalID, FieldParent, parentLocal})
			}
		}

		triggerLocal := deref(qr.TriggeringAnswerLocalID)
		if triggerLocal == "" {
			continue
		}
		id, ok := optionIDs[triggerLocal]
		if !ok || q.ParentQuestionID == nil {
			// A trigger without a parent can never fire.
			unresolved = append(unresolved, UnresolvedRef{qr.LocalID, FieldTrigger, triggerLocal})
			continue
		}
		q.TriggeringAnswerOptionID = &id
	}

	return s, unresolved, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
