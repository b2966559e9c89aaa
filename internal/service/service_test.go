package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"survey_backend/internal/config"
	"survey_backend/internal/model"
	"survey_backend/internal/repository"
	"survey_backend/internal/survey"
	"survey_backend/pkg/cache"
	"survey_backend/pkg/database"
	"survey_backend/pkg/lock"
)

type fixture struct {
	db        *gorm.DB
	surveys   *SurveyService
	responses *ResponseService
	redis     *miniredis.Miniredis
}

// newFixture wires the services to an in-memory SQLite database and, when
// withRedis is set, to a miniredis backed cache and lock.
func newFixture(t *testing.T, withRedis bool) *fixture {
	t.Helper()
	db, err := database.Open(
		&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		&gorm.Config{Logger: gormlogger.Discard},
	)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{db: db}
	var c cache.Cache = cache.Nop{}
	var l lock.Locker = lock.NewInMemory()
	if withRedis {
		f.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		c = cache.NewRedisCache(client, "survey-test:")
		l = lock.NewRedis(client, "survey-test:lock:")
	}

	surveyRepo := repository.NewSurveyRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	opts := DefaultOptions()
	f.surveys = NewSurveyService(surveyRepo, db, c, l, opts)
	f.responses = NewResponseService(responseRepo, surveyRepo, db, c, l, opts)
	return f
}

func strPtr(s string) *string { return &s }

// createBranching stores Q1 (single choice, A1=5, A2=3) and Q2 (free text,
// shown when A1 is picked).
func (f *fixture) createBranching(t *testing.T) *model.Survey {
	t.Helper()
	s, err := f.surveys.Create(context.Background(), survey.CreateSurveyRequest{
		Title: "Branching",
		Questions: []survey.CreateQuestionRequest{
			{
				LocalID: "q1", Text: "Q1", Type: model.SingleChoice,
				AnswerOptions: []survey.CreateAnswerOptionRequest{
					{LocalID: "a1", Text: "A1", Weight: 5},
					{LocalID: "a2", Text: "A2", Weight: 3},
				},
			},
			{
				LocalID: "q2", Text: "Q2", Type: model.FreeText,
				ParentLocalID: strPtr("q1"), TriggeringAnswerLocalID: strPtr("a1"),
			},
		},
	})
	require.NoError(t, err)
	return s
}

func desiredOf(s *model.Survey) survey.UpdateSurveyRequest {
	req := survey.UpdateSurveyRequest{ID: s.ID, Title: s.Title}
	for _, q := range s.Questions {
		uq := survey.UpdateQuestionRequest{
			ID:                       q.ID,
			Text:                     q.Text,
			Type:                     q.Type,
			ParentQuestionID:         q.ParentQuestionID,
			TriggeringAnswerOptionID: q.TriggeringAnswerOptionID,
		}
		for _, o := range q.AnswerOptions {
			uq.AnswerOptions = append(uq.AnswerOptions, survey.UpdateAnswerOptionRequest{ID: o.ID, Text: o.Text, Weight: o.Weight})
		}
		req.Questions = append(req.Questions, uq)
	}
	return req
}

func submitReq(s *model.Survey, answers ...survey.SubmitAnswerRequest) survey.SubmitResponseRequest {
	return survey.SubmitResponseRequest{SurveyID: s.ID, Answers: answers}
}

func pick(q model.Question, options ...int) survey.SubmitAnswerRequest {
	a := survey.SubmitAnswerRequest{QuestionID: q.ID}
	for _, i := range options {
		a.SelectedOptionIDs = append(a.SelectedOptionIDs, q.AnswerOptions[i].ID)
	}
	return a
}

func TestSurveyCreateAndGet(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	s := f.createBranching(t)

	detail, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SurveyDraft, detail.Status)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, "Q1", detail.Questions[0].Text)
	assert.True(t, f.redis.Exists("survey-test:survey:"+s.ID.String()))

	cached, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.Questions[1].ID, cached.Questions[1].ID)

	_, err = f.surveys.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, survey.ErrNotFound)
	assert.Equal(t, "Survey not found.", survey.Detail(err))
}

func TestSurveyCreateRejectsBadShape(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.surveys.Create(ctx, survey.CreateSurveyRequest{Title: "", Questions: []survey.CreateQuestionRequest{
		{LocalID: "q1", Text: "Q", Type: model.FreeText},
	}})
	assert.ErrorIs(t, err, survey.ErrInvalid)

	_, err = f.surveys.Create(ctx, survey.CreateSurveyRequest{Title: "Dup", Questions: []survey.CreateQuestionRequest{
		{LocalID: "q1", Text: "Q", Type: model.FreeText},
		{LocalID: "q1", Text: "Q", Type: model.FreeText},
	}})
	assert.ErrorIs(t, err, survey.ErrInvalid)
}

func TestSurveyCreateDropsUnresolvedReferences(t *testing.T) {
	f := newFixture(t, false)
	s, err := f.surveys.Create(context.Background(), survey.CreateSurveyRequest{
		Title: "Lenient",
		Questions: []survey.CreateQuestionRequest{
			{LocalID: "q1", Text: "Q1", Type: model.FreeText, ParentLocalID: strPtr("missing"), TriggeringAnswerLocalID: strPtr("nope")},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, s.Questions[0].ParentQuestionID)
	assert.Nil(t, s.Questions[0].TriggeringAnswerOptionID)
}

func TestSurveyList(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	first := f.createBranching(t)
	f.createBranching(t)

	_, err := f.responses.Submit(ctx, first.ID, submitReq(first, pick(first.Questions[0], 1)))
	require.NoError(t, err)

	list, total, err := f.surveys.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	statuses := map[uuid.UUID]model.SurveyStatus{}
	for _, s := range list {
		statuses[s.ID] = s.Status
		assert.EqualValues(t, 2, s.QuestionCount)
	}
	assert.Equal(t, model.SurveyClosed, statuses[first.ID])

	page2, _, err := f.surveys.List(ctx, 2, 1)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestSurveyUpdate(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	s := f.createBranching(t)
	_, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)

	req := desiredOf(s)
	req.Title = "Renamed"
	req.Questions[0].AnswerOptions[1].Weight = 4
	req.Questions = append(req.Questions, survey.UpdateQuestionRequest{
		Text: "Q3", Type: model.MultipleChoice,
		AnswerOptions: []survey.UpdateAnswerOptionRequest{{Text: "C1", Weight: 1}, {Text: "C2", Weight: 2}},
	})

	got, err := f.surveys.Update(ctx, s.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	require.Len(t, got.Questions, 3)
	assert.Equal(t, "Q3", got.Questions[2].Text)
	assert.Equal(t, []string{"C1", "C2"}, []string{got.Questions[2].AnswerOptions[0].Text, got.Questions[2].AnswerOptions[1].Text})
	assert.Equal(t, 4, got.Questions[0].AnswerOptions[1].Weight)
	assert.False(t, f.redis.Exists("survey-test:survey:"+s.ID.String()), "update invalidates the cached survey")

	// Same content again changes nothing.
	again, err := f.surveys.Update(ctx, s.ID, desiredOf(got))
	require.NoError(t, err)
	assert.Equal(t, got.Questions, again.Questions)
}

func TestSurveyUpdateErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)
	other := f.createBranching(t)

	_, err := f.surveys.Update(ctx, uuid.New(), desiredOf(s))
	assert.ErrorIs(t, err, survey.ErrInvalid, "path and body ids differ")

	missing := desiredOf(s)
	missing.ID = uuid.New()
	_, err = f.surveys.Update(ctx, missing.ID, missing)
	assert.ErrorIs(t, err, survey.ErrNotFound)

	stolen := desiredOf(s)
	stolen.Questions = append(stolen.Questions, survey.UpdateQuestionRequest{ID: other.Questions[1].ID, Text: "Mine", Type: model.FreeText})
	_, err = f.surveys.Update(ctx, s.ID, stolen)
	assert.ErrorIs(t, err, survey.ErrInvalid)

	selfParent := desiredOf(s)
	selfParent.Questions[0].ParentQuestionID = &s.Questions[0].ID
	_, err = f.surveys.Update(ctx, s.ID, selfParent)
	assert.ErrorIs(t, err, survey.ErrInvalid)

	got, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Questions, 2, "rejected updates leave the survey untouched")
}

func TestClosedSurveyRejectsUpdateAndDelete(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	s := f.createBranching(t)

	before, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SurveyDraft, before.Status)

	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(s.Questions[0], 0)))
	require.NoError(t, err)

	after, err := f.surveys.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SurveyClosed, after.Status)

	_, err = f.surveys.Update(ctx, s.ID, desiredOf(s))
	assert.ErrorIs(t, err, survey.ErrConflict)
	assert.Equal(t, "Cannot update a survey that has responses.", survey.Detail(err))

	err = f.surveys.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, survey.ErrConflict)
	assert.Equal(t, "Cannot delete a survey that has responses.", survey.Detail(err))

	// Closed surveys still take responses.
	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(s.Questions[0], 1)))
	assert.NoError(t, err)
}

func TestSurveyDelete(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)

	require.NoError(t, f.surveys.Delete(ctx, s.ID))
	_, err := f.surveys.Get(ctx, s.ID)
	assert.ErrorIs(t, err, survey.ErrNotFound)
	assert.ErrorIs(t, f.surveys.Delete(ctx, s.ID), survey.ErrNotFound)
}

func TestVisibleQuestions(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)
	q1 := s.Questions[0]

	visible, err := f.surveys.VisibleQuestions(ctx, s.ID, nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, q1.ID, visible[0].ID)

	visible, err = f.surveys.VisibleQuestions(ctx, s.ID, survey.AnswerMap{q1.ID: {q1.AnswerOptions[0].ID}})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	_, err = f.surveys.VisibleQuestions(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, survey.ErrNotFound)
}

func TestSubmitBranchingScenario(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)
	q1, q2 := s.Questions[0], s.Questions[1]

	resp, err := f.responses.Submit(ctx, s.ID, submitReq(s, pick(q1, 0)))
	require.NoError(t, err, "Q2 stays optional")
	assert.Equal(t, 5, survey.Score(resp))

	hidden := survey.SubmitAnswerRequest{QuestionID: q2.ID, FreeTextAnswer: strPtr("anything")}
	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(q1, 1), hidden))
	assert.ErrorIs(t, err, survey.ErrInvalid)
	assert.Contains(t, survey.Detail(err), q2.ID.String())

	shown := survey.SubmitAnswerRequest{QuestionID: q2.ID, FreeTextAnswer: strPtr("because")}
	resp, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(q1, 0), shown))
	require.NoError(t, err)

	detail, err := f.responses.GetDetail(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.TotalScore)
	require.Len(t, detail.Answers, 2)
	assert.Equal(t, "Q1", detail.Answers[0].QuestionText)
	assert.Equal(t, []string{"A1"}, detail.Answers[0].SelectedOptionTexts)
	require.NotNil(t, detail.Answers[1].FreeTextAnswer)
	assert.Equal(t, "because", *detail.Answers[1].FreeTextAnswer)

	list, total, err := f.responses.ListBySurvey(ctx, s.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}

func TestSubmitErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)
	q1 := s.Questions[0]

	_, err := f.responses.Submit(ctx, uuid.New(), submitReq(s, pick(q1, 0)))
	assert.ErrorIs(t, err, survey.ErrInvalid, "path and body ids differ")

	ghost := &model.Survey{ID: uuid.New()}
	_, err = f.responses.Submit(ctx, ghost.ID, submitReq(ghost, pick(q1, 0)))
	assert.ErrorIs(t, err, survey.ErrNotFound)

	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(q1, 0), pick(q1, 1)))
	assert.ErrorIs(t, err, survey.ErrInvalid)

	foreign := uuid.New()
	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, survey.SubmitAnswerRequest{QuestionID: q1.ID, SelectedOptionIDs: []uuid.UUID{foreign}}))
	assert.ErrorIs(t, err, survey.ErrInvalid)
	assert.Contains(t, survey.Detail(err), foreign.String())

	_, err = f.responses.Submit(ctx, s.ID, submitReq(s, pick(q1, 0, 1)))
	assert.ErrorIs(t, err, survey.ErrInvalid, "single choice takes one option")

	_, err = f.responses.GetDetail(ctx, uuid.New())
	assert.ErrorIs(t, err, survey.ErrNotFound)

	_, _, err = f.responses.ListBySurvey(ctx, uuid.New(), 1, 10)
	assert.ErrorIs(t, err, survey.ErrNotFound)

	closed, err := repository.NewSurveyRepository(f.db).HasResponses(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, closed, "rejected submissions leave the survey a draft")
}

func TestResponseDetailIsCached(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	s := f.createBranching(t)

	resp, err := f.responses.Submit(ctx, s.ID, submitReq(s, pick(s.Questions[0], 1)))
	require.NoError(t, err)
	first, err := f.responses.GetDetail(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, f.redis.Exists("survey-test:response:"+resp.ID.String()))

	second, err := f.responses.GetDetail(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.Answers, second.Answers)
	assert.True(t, first.SubmittedAt.Equal(second.SubmittedAt))
}

func TestLockTimeoutIsInternal(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	s := f.createBranching(t)

	locker := lock.NewInMemory()
	release, err := locker.Acquire(ctx, surveyKey(s.ID.String()), time.Minute)
	require.NoError(t, err)
	defer release()

	f.surveys.Locker = locker
	f.surveys.Options.LockWait = 20 * time.Millisecond
	err = f.surveys.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, survey.ErrInternal)
	assert.Equal(t, "failed to delete survey", survey.Detail(err))
}
