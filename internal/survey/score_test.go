package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"survey_backend/internal/model"
)

func TestScore(t *testing.T) {
	text := "free"
	cases := []struct {
		name    string
		answers []model.SubmittedAnswer
		want    int
	}{
		{"empty", nil, 0},
		{
			"weights plus free text",
			[]model.SubmittedAnswer{
				{SelectedOptions: []model.AnswerOption{{Weight: 5}, {Weight: 3}}},
				{FreeTextAnswer: &text},
			},
			8,
		},
		{
			"order independent",
			[]model.SubmittedAnswer{
				{FreeTextAnswer: &text},
				{SelectedOptions: []model.AnswerOption{{Weight: 3}, {Weight: 5}}},
			},
			8,
		},
		{
			"negative weights subtract",
			[]model.SubmittedAnswer{
				{SelectedOptions: []model.AnswerOption{{Weight: 4}}},
				{SelectedOptions: []model.AnswerOption{{Weight: -6}, {Weight: 1}}},
			},
			-1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Score(&model.SurveyResponse{Answers: c.answers}))
		})
	}
}
