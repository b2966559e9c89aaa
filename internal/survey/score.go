package survey

import "survey_backend/internal/model"

// Score sums the weights of every selected option across all answers.
// Free text answers select nothing and add zero.
func Score(r *model.SurveyResponse) int {
	total := 0
	for _, a := range r.Answers {
		for _, o := range a.SelectedOptions {
			total += o.Weight
		}
	}
	return total
}
