package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"survey_backend/internal/model"
	"survey_backend/internal/repository"
	"survey_backend/internal/survey"
	"survey_backend/pkg/cache"
	"survey_backend/pkg/lock"
	"survey_backend/pkg/logger"
	"survey_backend/pkg/monitoring"
	"survey_backend/pkg/tracing"
)

const (
	msgSurveyNotFound   = "Survey not found."
	msgUpdateClosed     = "Cannot update a survey that has responses."
	msgDeleteClosed     = "Cannot delete a survey that has responses."
	msgSurveyIDMismatch = "Survey Id in URL does not match Survey Id in body."

	failCreateSurvey = "failed to create survey"
	failUpdateSurvey = "failed to update survey"
	failDeleteSurvey = "failed to delete survey"
	failLoadSurvey   = "failed to load survey"
)

// SurveyDetail is a survey graph with its derived status.
type SurveyDetail struct {
	model.Survey
	Status model.SurveyStatus `json:"status"`
}

type SurveySummary struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	QuestionCount int64              `json:"questionCount"`
	ResponseCount int64              `json:"responseCount"`
	Status        model.SurveyStatus `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// VisibleQuestionsRequest carries a partial answer set.
type VisibleQuestionsRequest struct {
	Answers []survey.SubmitAnswerRequest `json:"answers" binding:"dive"`
}

type SurveyService struct {
	SurveyRepo *repository.SurveyRepository
	DB         *gorm.DB
	Cache      cache.Cache
	Locker     lock.Locker
	Options    Options
	Clock      func() time.Time
}

func NewSurveyService(
	surveyRepo *repository.SurveyRepository,
	db *gorm.DB,
	c cache.Cache,
	locker lock.Locker,
	opts Options,
) *SurveyService {
	return &SurveyService{
		SurveyRepo: surveyRepo,
		DB:         db,
		Cache:      c,
		Locker:     locker,
		Options:    opts,
		Clock:      time.Now,
	}
}

func (s *SurveyService) Create(ctx context.Context, req survey.CreateSurveyRequest) (_ *model.Survey, err error) {
	ctx, span := tracing.Start(ctx, "SurveyService.Create", "")
	defer func() {
		monitoring.SurveyOperations.WithLabelValues("create", monitoring.Outcome(err)).Inc()
		tracing.End(span, err)
	}()

	if err := checkShape(req); err != nil {
		return nil, err
	}
	graph, unresolved, err := survey.Resolve(req)
	if err != nil {
		return nil, err
	}
	for _, ref := range unresolved {
		logger.Log.Warn("Dropped unresolved reference",
			zap.String("surveyId", graph.ID.String()),
			zap.String("questionLocalId", ref.QuestionLocalID),
			zap.String("field", ref.Field),
			zap.String("localId", ref.LocalID),
		)
	}
	if err := survey.CheckGraph(graph); err != nil {
		return nil, err
	}

	if err := s.SurveyRepo.Create(ctx, graph); err != nil {
		return nil, survey.Internal(failCreateSurvey, err)
	}
	logger.Log.Info("Survey created",
		zap.String("surveyId", graph.ID.String()),
		zap.Int("questions", len(graph.Questions)),
	)
	return graph, nil
}

// Get returns the survey graph and status, from cache when possible.
func (s *SurveyService) Get(ctx context.Context, id uuid.UUID) (_ *SurveyDetail, err error) {
	ctx, span := tracing.Start(ctx, "SurveyService.Get", id.String())
	defer func() { tracing.End(span, err) }()

	var detail SurveyDetail
	if cacheGet(ctx, s.Cache, "survey", surveyKey(id.String()), &detail) {
		return &detail, nil
	}

	graph, err := s.SurveyRepo.FindGraph(ctx, id)
	if err != nil {
		return nil, storageError(err, msgSurveyNotFound, failLoadSurvey)
	}
	closed, err := s.SurveyRepo.HasResponses(ctx, id)
	if err != nil {
		return nil, survey.Internal(failLoadSurvey, err)
	}
	detail = SurveyDetail{Survey: *graph, Status: model.StatusFor(closed)}
	cacheSet(ctx, s.Cache, surveyKey(id.String()), detail, s.Options.SurveyTTL)
	return &detail, nil
}

func (s *SurveyService) List(ctx context.Context, page, limit int) ([]SurveySummary, int, error) {
	rows, total, err := s.SurveyRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, survey.Internal("failed to list surveys", err)
	}
	out := make([]SurveySummary, len(rows))
	for i, r := range rows {
		out[i] = SurveySummary{
			ID:            r.Survey.ID,
			Title:         r.Survey.Title,
			QuestionCount: r.QuestionCount,
			ResponseCount: r.ResponseCount,
			Status:        model.StatusFor(r.ResponseCount > 0),
			CreatedAt:     r.Survey.CreatedAt,
		}
	}
	return out, total, nil
}

// Update replaces the survey content with the desired state. Entities are
// matched by id; the write happens in one transaction under the survey lock.
func (s *SurveyService) Update(ctx context.Context, id uuid.UUID, req survey.UpdateSurveyRequest) (_ *model.Survey, err error) {
	ctx, span := tracing.Start(ctx, "SurveyService.Update", id.String())
	defer func() {
		monitoring.SurveyOperations.WithLabelValues("update", monitoring.Outcome(err)).Inc()
		tracing.End(span, err)
	}()

	if req.ID != id {
		return nil, survey.Invalidf(msgSurveyIDMismatch)
	}
	if err := checkShape(req); err != nil {
		return nil, err
	}

	var plan *survey.Plan
	err = withSurveyLock(ctx, s.Locker, s.Options, id.String(), failUpdateSurvey, func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.SurveyRepo.WithTx(tx)

			current, err := repo.FindGraph(ctx, id)
			if err != nil {
				return err
			}
			closed, err := repo.HasResponses(ctx, id)
			if err != nil {
				return err
			}
			if closed {
				return survey.Conflict(msgUpdateClosed)
			}

			var next *model.Survey
			plan, next, err = survey.Reconcile(current, req)
			if err != nil {
				return err
			}
			if err := survey.CheckGraph(next); err != nil {
				return err
			}
			if plan.Empty() {
				return nil
			}

			questionIDs, optionIDs := plan.NewIDs()
			taken, err := repo.TakenIDs(ctx, questionIDs, optionIDs)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				return survey.Invalidf("id(s) already in use by another survey or question: %s", joinIDs(taken))
			}
			return repo.ApplyPlan(ctx, plan, s.Clock().UTC())
		})
	})
	if err != nil {
		return nil, storageError(err, msgSurveyNotFound, failUpdateSurvey)
	}

	cacheDelete(ctx, s.Cache, surveyKey(id.String()))
	if plan.Empty() {
		logger.Log.Debug("Survey update was a no-op", zap.String("surveyId", id.String()))
	} else {
		logger.Log.Info("Survey updated",
			zap.String("surveyId", id.String()),
			zap.Int("insertedQuestions", len(plan.InsertQuestions)),
			zap.Int("updatedQuestions", len(plan.UpdateQuestions)),
			zap.Int("deletedQuestions", len(plan.DeleteQuestionIDs)),
			zap.Int("insertedOptions", len(plan.InsertOptions)),
			zap.Int("updatedOptions", len(plan.UpdateOptions)),
			zap.Int("deletedOptions", len(plan.DeleteOptionIDs)),
		)
	}

	graph, err := s.SurveyRepo.FindGraph(ctx, id)
	if err != nil {
		return nil, storageError(err, msgSurveyNotFound, failUpdateSurvey)
	}
	return graph, nil
}

func (s *SurveyService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.Start(ctx, "SurveyService.Delete", id.String())
	defer func() {
		monitoring.SurveyOperations.WithLabelValues("delete", monitoring.Outcome(err)).Inc()
		tracing.End(span, err)
	}()

	err = withSurveyLock(ctx, s.Locker, s.Options, id.String(), failDeleteSurvey, func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.SurveyRepo.WithTx(tx)
			exists, err := repo.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !exists {
				return gorm.ErrRecordNotFound
			}
			closed, err := repo.HasResponses(ctx, id)
			if err != nil {
				return err
			}
			if closed {
				return survey.Conflict(msgDeleteClosed)
			}
			return repo.Delete(ctx, id)
		})
	})
	if err != nil {
		return storageError(err, msgSurveyNotFound, failDeleteSurvey)
	}

	cacheDelete(ctx, s.Cache, surveyKey(id.String()))
	logger.Log.Info("Survey deleted", zap.String("surveyId", id.String()))
	return nil
}

// VisibleQuestions returns the questions a respondent sees for a partial
// answer set, in discovery order.
func (s *SurveyService) VisibleQuestions(ctx context.Context, id uuid.UUID, answers survey.AnswerMap) ([]model.Question, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	visible := survey.VisibleQuestions(&detail.Survey, answers)
	out := make([]model.Question, len(visible))
	for i, q := range visible {
		out[i] = *q
	}
	return out, nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
