package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"survey_backend/internal/config"
	"survey_backend/internal/util"
	"survey_backend/pkg/database"
)

const testSecret = "router-test-secret-router-test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type surveyBody struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Questions []struct {
		ID                       uuid.UUID  `json:"id"`
		Text                     string     `json:"text"`
		ParentQuestionID         *uuid.UUID `json:"parentQuestionId"`
		TriggeringAnswerOptionID *uuid.UUID `json:"triggeringAnswerOptionId"`
		AnswerOptions            []struct {
			ID     uuid.UUID `json:"id"`
			Text   string    `json:"text"`
			Weight int       `json:"weight"`
		} `json:"answerOptions"`
	} `json:"questions"`
}

// ids maps question and option texts to their durable ids.
func (s surveyBody) ids() map[string]uuid.UUID {
	m := map[string]uuid.UUID{}
	for _, q := range s.Questions {
		m[q.Text] = q.ID
		for _, o := range q.AnswerOptions {
			m[o.Text] = o.ID
		}
	}
	return m
}

func newTestApp(t *testing.T, authEnabled bool) *App {
	t.Helper()
	db, err := database.Open(
		&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		&gorm.Config{Logger: gormlogger.Discard},
	)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Cache:     config.CacheConfig{SurveyTTL: time.Minute, ResponseTTL: time.Minute},
		Lock:      config.LockConfig{TTL: 5 * time.Second, Wait: time.Second},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Auth:      config.AuthConfig{Enabled: authEnabled},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	a, err := New(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func (a *App) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func branchingSurvey() gin.H {
	return gin.H{
		"title": "Coffee habits",
		"questions": []gin.H{
			{
				"localId": "q1",
				"text":    "Do you drink coffee?",
				"type":    0,
				"answerOptions": []gin.H{
					{"localId": "a1", "text": "Yes", "weight": 5},
					{"localId": "a2", "text": "No", "weight": 3},
				},
			},
			{
				"localId":                 "q2",
				"text":                    "How do you take it?",
				"type":                    2,
				"parentLocalId":           "q1",
				"triggeringAnswerLocalId": "a1",
			},
		},
	}
}

func createSurvey(t *testing.T, a *App, token string) surveyBody {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/surveys", branchingSurvey(), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var s surveyBody
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestSurveyLifecycle(t *testing.T) {
	a := newTestApp(t, false)

	s := createSurvey(t, a, "")
	assert.Equal(t, "draft", s.Status)
	require.Len(t, s.Questions, 2)
	ids := s.ids()
	q1, q2 := ids["Do you drink coffee?"], ids["How do you take it?"]
	a1, a2 := ids["Yes"], ids["No"]
	require.NotNil(t, s.Questions[1].TriggeringAnswerOptionID)
	assert.Equal(t, a1, *s.Questions[1].TriggeringAnswerOptionID)

	base := "/api/surveys/" + s.ID.String()

	w, env := a.do(t, http.MethodPost, base+"/visible-questions", gin.H{
		"answers": []gin.H{{"questionId": q1, "selectedOptionIds": []uuid.UUID{a2}}},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var visible []struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	assert.Len(t, visible, 1)

	// Q2 is hidden when Q1 is answered with A2.
	w, env = a.do(t, http.MethodPost, base+"/responses", gin.H{
		"surveyId": s.ID,
		"answers": []gin.H{
			{"questionId": q1, "selectedOptionIds": []uuid.UUID{a2}},
			{"questionId": q2, "freeTextAnswer": "black"},
		},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, q2.String())

	// Q2 stays optional when Q1 is answered with A1.
	w, env = a.do(t, http.MethodPost, base+"/responses", gin.H{
		"surveyId": s.ID,
		"answers":  []gin.H{{"questionId": q1, "selectedOptionIds": []uuid.UUID{a1}}},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var submitted struct {
		ResponseID uuid.UUID `json:"responseId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))

	w, env = a.do(t, http.MethodGet, "/api/surveys/responses/"+submitted.ResponseID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		SurveyID   uuid.UUID `json:"surveyId"`
		TotalScore int       `json:"totalScore"`
		Answers    []struct {
			QuestionText        string   `json:"questionText"`
			SelectedOptionTexts []string `json:"selectedOptionTexts"`
		} `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, s.ID, detail.SurveyID)
	assert.Equal(t, 5, detail.TotalScore)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, []string{"Yes"}, detail.Answers[0].SelectedOptionTexts)

	w, env = a.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var closed surveyBody
	require.NoError(t, json.Unmarshal(env.Data, &closed))
	assert.Equal(t, "closed", closed.Status)

	w, env = a.do(t, http.MethodPut, base, gin.H{
		"id":    s.ID,
		"title": "Coffee habits",
		"questions": []gin.H{{
			"id": q1, "text": "Do you drink coffee?", "type": 0,
			"answerOptions": []gin.H{{"id": a1, "text": "Yes", "weight": 5}},
		}},
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot update a survey that has responses.", env.Message)

	w, env = a.do(t, http.MethodDelete, base, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot delete a survey that has responses.", env.Message)

	w, env = a.do(t, http.MethodGet, base+"/responses", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
}

func TestUpdateAndDeleteDraft(t *testing.T) {
	a := newTestApp(t, false)
	s := createSurvey(t, a, "")
	ids := s.ids()
	base := "/api/surveys/" + s.ID.String()

	desired := gin.H{
		"id":    s.ID,
		"title": "Tea habits",
		"questions": []gin.H{{
			"id": ids["Do you drink coffee?"], "text": "Do you drink tea?", "type": 0,
			"answerOptions": []gin.H{
				{"id": ids["Yes"], "text": "Yes", "weight": 5},
				{"text": "Sometimes", "weight": 1},
			},
		}},
	}
	w, env := a.do(t, http.MethodPut, base, desired, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated surveyBody
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Tea habits", updated.Title)
	require.Len(t, updated.Questions, 1)
	assert.Len(t, updated.Questions[0].AnswerOptions, 2)

	desired["id"] = uuid.New()
	w, env = a.do(t, http.MethodPut, base, desired, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Survey Id in URL does not match Survey Id in body.", env.Message)

	w, _ = a.do(t, http.MethodDelete, base, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = a.do(t, http.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Survey not found.", env.Message)
}

func TestRequestErrors(t *testing.T) {
	a := newTestApp(t, false)

	w, _ := a.do(t, http.MethodGet, "/api/surveys/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := a.do(t, http.MethodPost, "/api/surveys", gin.H{"questions": []gin.H{}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, env.Message)

	w, _ = a.do(t, http.MethodGet, "/api/surveys/responses/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(t, http.MethodGet, "/api/surveys/"+uuid.NewString()+"/responses", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s := createSurvey(t, a, "")
	w, env = a.do(t, http.MethodPost, "/api/surveys/"+s.ID.String()+"/responses", gin.H{
		"surveyId": uuid.New(),
		"answers":  []gin.H{{"questionId": s.Questions[0].ID, "selectedOptionIds": []uuid.UUID{s.Questions[0].AnswerOptions[0].ID}}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Survey Id in URL does not match survey Id in body.", env.Message)
}

func TestListSurveys(t *testing.T) {
	a := newTestApp(t, false)
	createSurvey(t, a, "")
	createSurvey(t, a, "")

	w, env := a.do(t, http.MethodGet, "/api/surveys?page=1&limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List []struct {
			QuestionCount int64  `json:"questionCount"`
			Status        string `json:"status"`
		} `json:"list"`
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.List, 1)
	assert.EqualValues(t, 2, page.List[0].QuestionCount)
	assert.Equal(t, "draft", page.List[0].Status)
}

func TestAuthoringRequiresAuthorRole(t *testing.T) {
	a := newTestApp(t, true)

	w, _ := a.do(t, http.MethodPost, "/api/surveys", branchingSurvey(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	respondent, err := util.GenerateJWT("r-1", util.RoleRespondent, testSecret, time.Hour)
	require.NoError(t, err)
	w, _ = a.do(t, http.MethodPost, "/api/surveys", branchingSurvey(), respondent)
	assert.Equal(t, http.StatusForbidden, w.Code)

	author, err := util.GenerateJWT("a-1", util.RoleAuthor, testSecret, time.Hour)
	require.NoError(t, err)
	s := createSurvey(t, a, author)

	// Reading and answering stay public.
	w, _ = a.do(t, http.MethodGet, "/api/surveys/"+s.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t, false)

	w, env := a.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "disabled", health.Components["redis"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
