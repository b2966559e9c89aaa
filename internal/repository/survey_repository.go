package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"survey_backend/internal/model"
	"survey_backend/internal/survey"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

// WithTx returns a repository bound to tx.
func (r *SurveyRepository) WithTx(tx *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: tx}
}

// SurveyListRow is a survey header with its counts.
type SurveyListRow struct {
	Survey        model.Survey
	QuestionCount int64
	ResponseCount int64
}

// Create inserts the survey with its questions and options.
func (r *SurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindGraph loads the survey with questions and options in insertion order.
// It returns gorm.ErrRecordNotFound for an unknown id.
func (r *SurveyRepository) FindGraph(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	var s model.Survey
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderByPosition).
		Preload("Questions.AnswerOptions", orderByPosition).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SurveyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Survey{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *SurveyRepository) List(ctx context.Context, page, limit int) ([]SurveyListRow, int, error) {
	var surveys []model.Survey
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Survey{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Order("id").Offset(offset).Limit(limit).Find(&surveys).Error; err != nil {
		return nil, 0, err
	}
	if len(surveys) == 0 {
		return []SurveyListRow{}, int(total), nil
	}

	ids := make([]uuid.UUID, len(surveys))
	for i, s := range surveys {
		ids[i] = s.ID
	}
	questions, err := r.countBySurvey(ctx, &model.Question{}, ids)
	if err != nil {
		return nil, 0, err
	}
	responses, err := r.countBySurvey(ctx, &model.SurveyResponse{}, ids)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]SurveyListRow, len(surveys))
	for i, s := range surveys {
		rows[i] = SurveyListRow{
			Survey:        s,
			QuestionCount: questions[s.ID],
			ResponseCount: responses[s.ID],
		}
	}
	return rows, int(total), nil
}

func (r *SurveyRepository) countBySurvey(ctx context.Context, table interface{}, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var counts []struct {
		SurveyID uuid.UUID
		N        int64
	}
	err := r.DB.WithContext(ctx).Model(table).
		Select("survey_id, COUNT(*) AS n").
		Where("survey_id IN ?", ids).
		Group("survey_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		out[c.SurveyID] = c.N
	}
	return out, nil
}

// HasResponses reports whether the survey is closed for edits.
func (r *SurveyRepository) HasResponses(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.SurveyResponse{}).
		Where("survey_id = ?", id).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// TakenIDs returns which of the given ids already exist as questions or
// options anywhere.
func (r *SurveyRepository) TakenIDs(ctx context.Context, questionIDs, optionIDs []uuid.UUID) ([]uuid.UUID, error) {
	var taken []uuid.UUID
	if len(questionIDs) > 0 {
		var ids []uuid.UUID
		if err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("id IN ?", questionIDs).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		taken = append(taken, ids...)
	}
	if len(optionIDs) > 0 {
		var ids []uuid.UUID
		if err := r.DB.WithContext(ctx).Model(&model.AnswerOption{}).Where("id IN ?", optionIDs).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		taken = append(taken, ids...)
	}
	return taken, nil
}

// ApplyPlan writes a reconcile plan. Run it inside a transaction. Deletes
// go first so that no removed row is still referenced by a new one.
func (r *SurveyRepository) ApplyPlan(ctx context.Context, plan *survey.Plan, now time.Time) error {
	db := r.DB.WithContext(ctx)

	if len(plan.DeleteOptionIDs) > 0 {
		if err := db.Where("id IN ?", plan.DeleteOptionIDs).Delete(&model.AnswerOption{}).Error; err != nil {
			return err
		}
	}
	if len(plan.DeleteQuestionIDs) > 0 {
		if err := db.Where("id IN ?", plan.DeleteQuestionIDs).Delete(&model.Question{}).Error; err != nil {
			return err
		}
	}

	header := map[string]interface{}{"updated_at": now}
	if plan.Title != nil {
		header["title"] = *plan.Title
	}
	if err := db.Model(&model.Survey{}).Where("id = ?", plan.SurveyID).Updates(header).Error; err != nil {
		return err
	}

	for _, q := range plan.UpdateQuestions {
		err := db.Model(&model.Question{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"text":                        q.Text,
			"type":                        q.Type,
			"parent_question_id":          q.ParentQuestionID,
			"triggering_answer_option_id": q.TriggeringAnswerOptionID,
		}).Error
		if err != nil {
			return err
		}
	}
	for _, o := range plan.UpdateOptions {
		err := db.Model(&model.AnswerOption{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
			"text":   o.Text,
			"weight": o.Weight,
		}).Error
		if err != nil {
			return err
		}
	}

	if len(plan.InsertQuestions) > 0 {
		next, err := r.nextQuestionPosition(ctx, plan.SurveyID)
		if err != nil {
			return err
		}
		qs := make([]model.Question, len(plan.InsertQuestions))
		for i, q := range plan.InsertQuestions {
			q.AnswerOptions = nil
			q.Position = next + i
			qs[i] = q
		}
		if err := db.Omit(clause.Associations).Create(&qs).Error; err != nil {
			return err
		}
	}
	if len(plan.InsertOptions) > 0 {
		next, err := r.nextOptionPosition(ctx, plan.SurveyID)
		if err != nil {
			return err
		}
		opts := make([]model.AnswerOption, len(plan.InsertOptions))
		for i, o := range plan.InsertOptions {
			o.Position = next + i
			opts[i] = o
		}
		if err := db.Create(&opts).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *SurveyRepository) nextQuestionPosition(ctx context.Context, surveyID uuid.UUID) (int, error) {
	var top sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("survey_id = ?", surveyID).
		Select("MAX(position)").
		Row().Scan(&top)
	if err != nil || !top.Valid {
		return 0, err
	}
	return int(top.Int64) + 1, nil
}

// Option positions only order options within one question, so a survey wide
// counter is enough.
func (r *SurveyRepository) nextOptionPosition(ctx context.Context, surveyID uuid.UUID) (int, error) {
	var top sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.AnswerOption{}).
		Where("question_id IN (?)", r.DB.Model(&model.Question{}).Select("id").Where("survey_id = ?", surveyID)).
		Select("MAX(position)").
		Row().Scan(&top)
	if err != nil || !top.Valid {
		return 0, err
	}
	return int(top.Int64) + 1, nil
}

// Delete removes the survey with its questions and options. Run it inside
// a transaction. It returns gorm.ErrRecordNotFound for an unknown id.
func (r *SurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.DB.WithContext(ctx)
	questionIDs := r.DB.Model(&model.Question{}).Select("id").Where("survey_id = ?", id)
	if err := db.Where("question_id IN (?)", questionIDs).Delete(&model.AnswerOption{}).Error; err != nil {
		return err
	}
	if err := db.Where("survey_id = ?", id).Delete(&model.Question{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Survey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
