package controller

import (
	"github.com/gin-gonic/gin"

	"survey_backend/internal/service"
	"survey_backend/internal/survey"
	"survey_backend/internal/util"
)

type ResponseController struct {
	ResponseService *service.ResponseService
}

func NewResponseController(responseService *service.ResponseService) *ResponseController {
	return &ResponseController{ResponseService: responseService}
}

// SubmitResult is returned after a response is stored.
type SubmitResult struct {
	ResponseID string `json:"responseId"`
}

// @Summary Submit a survey response
// @Description Validates the answers against the survey's branching rules and stores them. The first response closes the survey for edits.
// @Tags Responses
// @Accept json
// @Produce json
// @Param id path string true "Survey id"
// @Param response body survey.SubmitResponseRequest true "Answers"
// @Success 200 {object} util.Response{data=SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /surveys/{id}/responses [post]
func (c *ResponseController) SubmitResponse(ctx *gin.Context) {
	surveyID, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req survey.SubmitResponseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.ResponseService.Submit(ctx.Request.Context(), surveyID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, SubmitResult{ResponseID: resp.ID.String()})
}

// @Summary List responses of a survey
// @Tags Responses
// @Produce json
// @Param id path string true "Survey id"
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, at most 100" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]service.ResponseSummary}}
// @Failure 404 {object} util.Response
// @Router /surveys/{id}/responses [get]
func (c *ResponseController) ListResponses(ctx *gin.Context) {
	surveyID, ok := util.ParseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := util.PageParams(ctx)

	list, total, err := c.ResponseService.ListBySurvey(ctx.Request.Context(), surveyID, page, limit)
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

// @Summary Get survey response details
// @Description Returns every answered question with the selected option texts and the total score
// @Tags Responses
// @Produce json
// @Param responseId path string true "Response id"
// @Success 200 {object} util.Response{data=service.ResponseDetail}
// @Failure 404 {object} util.Response
// @Router /surveys/responses/{responseId} [get]
func (c *ResponseController) GetResponse(ctx *gin.Context) {
	id, ok := util.ParseUUIDParam(ctx, "responseId")
	if !ok {
		return
	}

	detail, err := c.ResponseService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
