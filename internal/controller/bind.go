package controller

import (
	"github.com/gin-gonic/gin"

	"survey_backend/internal/util"
	"survey_backend/internal/validation"
)

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.BadRequest(ctx, validation.Message(err))
		return false
	}
	return true
}
