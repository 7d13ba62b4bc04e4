package app

import (
	"snapquizzer_backend/docs"
	"snapquizzer_backend/internal/config"
	"snapquizzer_backend/internal/middleware"
	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.GET("/profile", c.auth.Profile)

		// Quizzes and results
		api.POST("/quizzes", c.quiz.Create)
		api.GET("/quizzes", c.quiz.List)
		api.GET("/quizzes/:id", c.quiz.Get)
		api.PUT("/quizzes/:id", c.quiz.Update)
		api.DELETE("/quizzes/:id", c.quiz.Delete)
		api.POST("/quizzes/:id/submit", c.quiz.Submit)
		api.GET("/quizzes/:id/submissions", c.quiz.ListQuizSubmissions)
		api.GET("/submissions", c.quiz.ListSubmissions)
		api.GET("/submissions/:id", c.quiz.GetSubmission)

		// Image extraction
		api.POST("/process/image", c.process.ProcessImage)
		api.POST("/process/images", c.process.ProcessImages)

		// Quiz creation wizard
		drafts := api.Group("/drafts")
		{
			drafts.POST("", c.draft.Create)
			drafts.GET("/:id", c.draft.Get)
			drafts.DELETE("/:id", c.draft.Delete)
			drafts.POST("/:id/extract", c.draft.Extract)
			drafts.POST("/:id/import", c.draft.Import)
			drafts.POST("/:id/questions", c.draft.AddQuestion)
			drafts.PATCH("/:id/questions/:index", c.draft.UpdateQuestion)
			drafts.DELETE("/:id/questions/:index", c.draft.RemoveQuestion)
			drafts.POST("/:id/questions/:index/options", c.draft.AddOption)
			drafts.PATCH("/:id/questions/:index/options/:optionId", c.draft.SetOptionText)
			drafts.DELETE("/:id/questions/:index/options/:optionId", c.draft.RemoveOption)
			drafts.POST("/:id/advance", c.draft.Advance)
			drafts.POST("/:id/back", c.draft.Back)
			drafts.POST("/:id/submit", c.draft.Submit)
		}

		// Live attempts
		api.POST("/quizzes/:id/sessions", c.session.Start)
		sessions := api.Group("/sessions")
		{
			sessions.GET("/:id", c.session.Get)
			sessions.POST("/:id/select", c.session.Select)
			sessions.POST("/:id/navigate", c.session.Navigate)
			sessions.POST("/:id/submit", c.session.Submit)
		}

		// Classes
		api.GET("/classes", c.class.List)
		api.POST("/classes", middleware.RoleMiddleware(model.Teacher), c.class.Create)
		api.POST("/classes/:code/join", c.class.Join)
	}
}
