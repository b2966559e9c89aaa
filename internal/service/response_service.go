package service

import (
	"context"
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
	msgResponseNotFound = "The requested survey response was not found."
	msgResponseMismatch = "Survey Id in URL does not match survey Id in body."
	failCreateResponse  = "failed to create survey response"
	failLoadResponse    = "failed to load survey response"
)

type AnswerDetail struct {
	QuestionID          uuid.UUID `json:"questionId"`
	QuestionText        string    `json:"questionText"`
	FreeTextAnswer      *string   `json:"freeTextAnswer"`
	SelectedOptionTexts []string  `json:"selectedOptionTexts"`
}

type ResponseDetail struct {
	ID          uuid.UUID      `json:"id"`
	SurveyID    uuid.UUID      `json:"surveyId"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Answers     []AnswerDetail `json:"answers"`
	TotalScore  int            `json:"totalScore"`
}

type ResponseSummary struct {
	ID          uuid.UUID `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
	AnswerCount int       `json:"answerCount"`
	TotalScore  int       `json:"totalScore"`
}

type ResponseService struct {
	ResponseRepo *repository.ResponseRepository
	SurveyRepo   *repository.SurveyRepository
	DB           *gorm.DB
	Cache        cache.Cache
	Locker       lock.Locker
	Options      Options
	Clock        func() time.Time
}

func NewResponseService(
	responseRepo *repository.ResponseRepository,
	surveyRepo *repository.SurveyRepository,
	db *gorm.DB,
	c cache.Cache,
	locker lock.Locker,
	opts Options,
) *ResponseService {
	return &ResponseService{
		ResponseRepo: responseRepo,
		SurveyRepo:   surveyRepo,
		DB:           db,
		Cache:        c,
		Locker:       locker,
		Options:      opts,
		Clock:        time.Now,
	}
}

// Submit validates the answers against the current survey graph and stores
// the response. The first response closes the survey for edits.
func (s *ResponseService) Submit(ctx context.Context, surveyID uuid.UUID, req survey.SubmitResponseRequest) (_ *model.SurveyResponse, err error) {
	ctx, span := tracing.Start(ctx, "ResponseService.Submit", surveyID.String())
	defer func() {
		monitoring.ResponsesSubmitted.WithLabelValues(monitoring.Outcome(err)).Inc()
		tracing.End(span, err)
	}()

	if req.SurveyID != surveyID {
		return nil, survey.Invalidf(msgResponseMismatch)
	}
	if err := checkShape(req); err != nil {
		return nil, err
	}

	var resp *model.SurveyResponse
	err = withSurveyLock(ctx, s.Locker, s.Options, surveyID.String(), failCreateResponse, func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			graph, err := s.SurveyRepo.WithTx(tx).FindGraph(ctx, surveyID)
			if err != nil {
				return err
			}
			resp, err = survey.ValidateResponse(graph, req.Answers, s.Clock())
			if err != nil {
				return err
			}
			return s.ResponseRepo.WithTx(tx).Create(ctx, resp)
		})
	})
	if err != nil {
		return nil, storageError(err, msgSurveyNotFound, failCreateResponse)
	}

	// The cached survey may still say draft.
	cacheDelete(ctx, s.Cache, surveyKey(surveyID.String()))

	score := survey.Score(resp)
	monitoring.ResponseScore.Observe(float64(score))
	logger.Log.Info("Survey response submitted",
		zap.String("surveyId", surveyID.String()),
		zap.String("responseId", resp.ID.String()),
		zap.Int("answers", len(resp.Answers)),
		zap.Int("score", score),
	)
	return resp, nil
}

// GetDetail returns a response with question and option texts and its
// total score. Responses never change, so the detail is cached.
func (s *ResponseService) GetDetail(ctx context.Context, responseID uuid.UUID) (_ *ResponseDetail, err error) {
	ctx, span := tracing.Start(ctx, "ResponseService.GetDetail", "")
	defer func() { tracing.End(span, err) }()

	var detail ResponseDetail
	if cacheGet(ctx, s.Cache, "response", responseKey(responseID.String()), &detail) {
		return &detail, nil
	}

	resp, err := s.ResponseRepo.FindByID(ctx, responseID)
	if err != nil {
		return nil, storageError(err, msgResponseNotFound, failLoadResponse)
	}
	graph, err := s.SurveyRepo.FindGraph(ctx, resp.SurveyID)
	if err != nil {
		return nil, survey.Internal(failLoadResponse, err)
	}

	detail = buildResponseDetail(graph, resp)
	cacheSet(ctx, s.Cache, responseKey(responseID.String()), detail, s.Options.ResponseTTL)
	return &detail, nil
}

func (s *ResponseService) ListBySurvey(ctx context.Context, surveyID uuid.UUID, page, limit int) ([]ResponseSummary, int, error) {
	exists, err := s.SurveyRepo.Exists(ctx, surveyID)
	if err != nil {
		return nil, 0, survey.Internal(failLoadResponse, err)
	}
	if !exists {
		return nil, 0, survey.NotFound(msgSurveyNotFound)
	}

	responses, total, err := s.ResponseRepo.ListBySurvey(ctx, surveyID, page, limit)
	if err != nil {
		return nil, 0, survey.Internal("failed to list survey responses", err)
	}
	out := make([]ResponseSummary, len(responses))
	for i := range responses {
		r := &responses[i]
		out[i] = ResponseSummary{
			ID:          r.ID,
			SubmittedAt: r.SubmittedAt,
			AnswerCount: len(r.Answers),
			TotalScore:  survey.Score(r),
		}
	}
	return out, total, nil
}

// buildResponseDetail lists the answers in question order and the selected
// options in option order.
func buildResponseDetail(graph *model.Survey, resp *model.SurveyResponse) ResponseDetail {
	byQuestion := make(map[uuid.UUID]*model.SubmittedAnswer, len(resp.Answers))
	for i := range resp.Answers {
		byQuestion[resp.Answers[i].QuestionID] = &resp.Answers[i]
	}

	detail := ResponseDetail{
		ID:          resp.ID,
		SurveyID:    resp.SurveyID,
		SubmittedAt: resp.SubmittedAt.UTC(),
		Answers:     make([]AnswerDetail, 0, len(resp.Answers)),
		TotalScore:  survey.Score(resp),
	}
	for _, q := range graph.Questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		selected := make(map[uuid.UUID]struct{}, len(a.SelectedOptions))
		for _, o := range a.SelectedOptions {
			selected[o.ID] = struct{}{}
		}
		texts := make([]string, 0, len(a.SelectedOptions))
		for _, o := range q.AnswerOptions {
			if _, ok := selected[o.ID]; ok {
				texts = append(texts, o.Text)
			}
		}
		detail.Answers = append(detail.Answers, AnswerDetail{
			QuestionID:          q.ID,
			QuestionText:        q.Text,
			FreeTextAnswer:      a.FreeTextAnswer,
			SelectedOptionTexts: texts,
		})
	}
	return detail
}
