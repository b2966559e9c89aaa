package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"survey_backend/docs"
	"survey_backend/internal/config"
	"survey_backend/internal/middleware"
	"survey_backend/internal/util"
	"survey_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 1. 公共路由: 浏览问卷与提交答卷
	surveys := api.Group("/surveys")
	{
		surveys.GET("", c.survey.ListSurveys)
		surveys.GET("/:id", c.survey.GetSurvey)
		surveys.POST("/:id/visible-questions", c.survey.VisibleQuestions)
		surveys.POST("/:id/responses", c.response.SubmitResponse)
		surveys.GET("/:id/responses", c.response.ListResponses)
		surveys.GET("/responses/:responseId", c.response.GetResponse)
	}

	// 2. 问卷编辑: 需要作者身份
	authoring := api.Group("/surveys")
	authoring.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(cfg, util.RoleAuthor))
	{
		authoring.POST("", c.survey.CreateSurvey)
		authoring.PUT("/:id", c.survey.UpdateSurvey)
		authoring.DELETE("/:id", c.survey.DeleteSurvey)
	}
}
