// Package validation holds the declarative request shape rules that run
// in gin's binding step, ahead of the survey engine.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"survey_backend/internal/model"
	"survey_backend/internal/survey"
)

const (
	tagQuestionType  = "questiontype"
	tagChoiceOptions = "choiceoptions"
	tagUniqueLocalID = "uniquelocalid"
)

// Setup registers the survey rules on gin's validator engine.
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validation: gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// New returns a standalone validator using the binding tag, for code that
// validates outside of a gin request.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(tagQuestionType, func(fl validator.FieldLevel) bool {
		return model.QuestionType(fl.Field().Int()).Valid()
	}); err != nil {
		return err
	}
	v.RegisterStructValidation(createSurveyRules, survey.CreateSurveyRequest{})
	v.RegisterStructValidation(createQuestionRules, survey.CreateQuestionRequest{})
	v.RegisterStructValidation(updateQuestionRules, survey.UpdateQuestionRequest{})
	return nil
}

func createSurveyRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(survey.CreateSurveyRequest)

	questions := make(map[string]struct{}, len(req.Questions))
	options := make(map[string]struct{})
	for i, q := range req.Questions {
		if _, dup := questions[q.LocalID]; dup && q.LocalID != "" {
			sl.ReportError(q.LocalID, fmt.Sprintf("Questions[%d].LocalID", i), "localId", tagUniqueLocalID, q.LocalID)
		}
		questions[q.LocalID] = struct{}{}
		for j, o := range q.AnswerOptions {
			if _, dup := options[o.LocalID]; dup && o.LocalID != "" {
				sl.ReportError(o.LocalID, fmt.Sprintf("Questions[%d].AnswerOptions[%d].LocalID", i, j), "localId", tagUniqueLocalID, o.LocalID)
			}
			options[o.LocalID] = struct{}{}
		}
	}
}

func createQuestionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(survey.CreateQuestionRequest)
	if q.Type.IsChoice() && len(q.AnswerOptions) == 0 {
		sl.ReportError(q.AnswerOptions, "AnswerOptions", "answerOptions", tagChoiceOptions, "")
	}
}

func updateQuestionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(survey.UpdateQuestionRequest)
	if q.Type != model.FreeText && len(q.AnswerOptions) == 0 {
		sl.ReportError(q.AnswerOptions, "AnswerOptions", "answerOptions", tagChoiceOptions, "")
	}
}

// Message turns a binding error into a caller-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "unique":
		return "duplicate answer options are not allowed in a single answer"
	case tagQuestionType:
		return field + " must be 0 (single choice), 1 (multiple choice) or 2 (free text)"
	case tagChoiceOptions:
		return field + ": choice-based questions must have answer options"
	case tagUniqueLocalID:
		return fmt.Sprintf("%s: localId %q is used more than once", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}
