package controller

import (
	"github.com/gin-gonic/gin"

	"survey_backend/internal/model"
	"survey_backend/internal/service"
	"survey_backend/internal/survey"
	"survey_backend/internal/util"
)

type SurveyController struct {
	SurveyService *service.SurveyService
}

func NewSurveyController(surveyService *service.SurveyService) *SurveyController {
	return &SurveyController{SurveyService: surveyService}
}

// @Summary Create a survey
// @Description Creates a survey from questions and options that reference each other by request-local ids. Unknown references are dropped.
// @Tags Surveys
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param survey body survey.CreateSurveyRequest true "Survey definition"
// @Success 201 {object} util.Response{data=service.SurveyDetail}
// @Failure 400 {object} util.Response
// @Router /surveys [post]
func (c *SurveyController) CreateSurvey(ctx *gin.Context) {
	var req survey.CreateSurveyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	s, err := c.SurveyService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	ctx.Header("Location", "/api/surveys/"+s.ID.String())
	util.Created(ctx, service.SurveyDetail{Survey: *s, Status: model.SurveyDraft})
}

// @Summary List surveys
// @Tags Surveys
// @Produce json
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, at most 100" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]service.SurveySummary}}
// @Router /surveys [get]
func (c *SurveyController) ListSurveys(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	list, total, err := c.SurveyService.List(ctx.Request.Context(), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  list,
		Total: int64(total),
		Page:  page,
		Limit: limit,
	})
}

// @Summary Get a survey
// @Description Returns the survey with its questions, options and status (draft or closed)
// @Tags Surveys
// @Produce json
// @Param id path string true "Survey id"
// @Success 200 {object} util.Response{data=service.SurveyDetail}
// @Failure 404 {object} util.Response
// @Router /surveys/{id} [get]
func (c *SurveyController) GetSurvey(ctx *gin.Context) {
	id, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.SurveyService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Update a survey
// @Description Replaces the survey with the desired state. Questions and options are matched by id; an empty id creates a new entity and anything left out is deleted. Surveys with responses cannot be updated.
// @Tags Surveys
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Survey id"
// @Param survey body survey.UpdateSurveyRequest true "Desired survey state"
// @Success 200 {object} util.Response{data=service.SurveyDetail}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /surveys/{id} [put]
func (c *SurveyController) UpdateSurvey(ctx *gin.Context) {
	id, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req survey.UpdateSurveyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	s, err := c.SurveyService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, service.SurveyDetail{Survey: *s, Status: model.SurveyDraft})
}

// @Summary Delete a survey
// @Description Deletes a survey with its questions and options. Surveys with responses cannot be deleted.
// @Tags Surveys
// @Security ApiKeyAuth
// @Param id path string true "Survey id"
// @Success 204
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /surveys/{id} [delete]
func (c *SurveyController) DeleteSurvey(ctx *gin.Context) {
	id, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.SurveyService.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary Visible questions
// @Description Returns the questions shown for a partial set of answers, in display order
// @Tags Surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey id"
// @Param answers body service.VisibleQuestionsRequest true "Answers so far"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response
// @Router /surveys/{id}/visible-questions [post]
func (c *SurveyController) VisibleQuestions(ctx *gin.Context) {
	id, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req service.VisibleQuestionsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	questions, err := c.SurveyService.VisibleQuestions(ctx.Request.Context(), id, survey.AnswerMapOf(req.Answers))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
