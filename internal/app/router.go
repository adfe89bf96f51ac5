package app

import (
	"student_portal_backend/docs"
	"student_portal_backend/internal/config"
	"student_portal_backend/internal/middleware"
	"student_portal_backend/internal/model"
	"student_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/profile", c.auth.GetProfile)

		// Student records
		authorized.GET("/students", middleware.RoleMiddleware(model.RoleAdvisor), c.student.ListStudents)
		authorized.GET("/students/:id", c.student.GetStudent)
		authorized.GET("/students/:id/courses", c.student.GetStudentCourses)
		authorized.GET("/students/:id/performance", c.student.GetStudentPerformance)
		authorized.GET("/students/:id/stats", c.student.GetStudentStats)
		authorized.POST("/students/:id/enrollments", c.student.Enroll)
		authorized.PUT("/students/:id/enrollments/:courseId/complete", c.student.CompleteCourse)
		authorized.DELETE("/students/:id/enrollments/:courseId", c.student.DropCourse)

		// Hybrid recommendation engine
		recommend := authorized.Group("/recommend")
		{
			recommend.POST("", c.recommendation.Recommend)
			recommend.GET("/courses", c.recommendation.ListCourses)
			recommend.GET("/explain/:courseId", c.recommendation.ExplainCourse)
			recommend.POST("/learning-path", c.recommendation.LearningPath)
		}

		// Grade prediction
		predict := authorized.Group("/predict")
		{
			predict.GET("/performance", c.prediction.PredictPerformance)
			predict.GET("/insights", c.prediction.GetInsights)
			predict.GET("/features", c.prediction.GetFeatures)
			predict.POST("/batch", c.prediction.PredictBatch)
		}

		// AI advisor chat
		chat := authorized.Group("/chat")
		{
			chat.POST("", c.chat.Ask)
			chat.POST("/stream", c.chat.AskStream)
			chat.POST("/reset", c.chat.Reset)
			chat.GET("/sessions", c.chat.GetSessions)
			chat.DELETE("/sessions/:sessionId", c.chat.DeleteSession)
			chat.GET("/history/:sessionId", c.chat.GetHistory)
		}

		// Feedback analytics, advisor-facing
		analysis := authorized.Group("/analysis")
		analysis.Use(middleware.RoleMiddleware(model.RoleAdvisor))
		{
			analysis.POST("/sentiment", c.analysis.AnalyzeSentiment)
			analysis.POST("/batch-sentiment", c.analysis.AnalyzeSentimentBatch)
			analysis.POST("/classify", c.analysis.Classify)
			analysis.POST("/batch-classify", c.analysis.ClassifyBatch)
			analysis.POST("/topics", c.analysis.ExtractTopics)
			analysis.POST("/keywords", c.analysis.ExtractKeywords)
			analysis.POST("/feedback", c.analysis.AnalyzeFeedback)
			analysis.GET("/reports", c.analysis.ListReports)
			analysis.GET("/reports/:id", c.analysis.GetReport)
		}
	}
}
