package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"survey_backend/internal/model"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) WithTx(tx *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: tx}
}

// Create writes the response, its answers and the selected option links.
// Selected options already exist, so their rows are left untouched.
func (r *ResponseRepository) Create(ctx context.Context, resp *model.SurveyResponse) error {
	return r.DB.WithContext(ctx).Create(resp).Error
}

// FindByID returns gorm.ErrRecordNotFound for an unknown id.
func (r *ResponseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := r.DB.WithContext(ctx).
		Preload("Answers.SelectedOptions").
		First(&resp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID, page, limit int) ([]model.SurveyResponse, int, error) {
	var responses []model.SurveyResponse
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.SurveyResponse{}).Where("survey_id = ?", surveyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Answers.SelectedOptions").
		Order("submitted_at desc").Order("id").
		Offset(offset).Limit(limit).
		Find(&responses).Error
	return responses, int(total), err
}
