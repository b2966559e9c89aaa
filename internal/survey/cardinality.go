package survey

import (
	"strings"

	"github.com/google/uuid"

	"survey_backend/internal/model"
)

// CheckCardinality applies the per-type answer shape rules:
// single choice takes exactly one option, multiple choice one or more,
// free text no options and a non-blank text. Choice answers carry no text.
func CheckCardinality(q *model.Question, a SubmitAnswerRequest) error {
	hasText := strings.TrimSpace(deref(a.FreeTextAnswer)) != ""
	n := len(a.SelectedOptionIDs)

	switch q.Type {
	case model.SingleChoice:
		if n != 1 {
			return Invalidf("single choice question %s must have exactly one answer, got %d", q.ID, n)
		}
		if hasText {
			return Invalidf("single choice question %s cannot have a free text answer", q.ID)
		}
	case model.MultipleChoice:
		if n == 0 {
			return Invalidf("multiple choice question %s must have at least one answer", q.ID)
		}
		if hasText {
			return Invalidf("multiple choice question %s cannot have a free text answer", q.ID)
		}
	case model.FreeText:
		if n != 0 {
			return Invalidf("free text question %s cannot have selected options", q.ID)
		}
		if !hasText {
			return Invalidf("free text question %s must have a text answer", q.ID)
		}
	default:
		return Invalidf("question %s has unknown type %d", q.ID, q.Type)
	}

	seen := make(map[uuid.UUID]struct{}, n)
	for _, id := range a.SelectedOptionIDs {
		if _, dup := seen[id]; dup {
			return Invalidf("duplicate answer option %s in answer to question %s", id, q.ID)
		}
		seen[id] = struct{}{}
	}
	return nil
}
