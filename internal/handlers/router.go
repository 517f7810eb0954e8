package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openclass-labs/exam-engine/internal/identity"
	"github.com/openclass-labs/exam-engine/internal/services"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

type HandlerManager struct {
	examHandler  *ExamHandler
	adminHandler *AdminHandler
	verifier     identity.Verifier
}

func NewHandlerManager(
	sessionService services.SessionService,
	resultService services.ResultService,
	leaderboardService services.LeaderboardService,
	testService services.TestService,
	exportService services.ExportService,
	verifier identity.Verifier,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler:  NewExamHandler(sessionService, resultService, leaderboardService, logger),
		adminHandler: NewAdminHandler(testService, exportService, logger),
		verifier:     verifier,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-engine",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(identity.Middleware(hm.verifier))
	{
		exams := v1.Group("/exams")
		{
			exams.POST("/:test_id/session", hm.examHandler.StartSession)
			exams.POST("/:test_id/submissions", hm.examHandler.Submit)
			exams.GET("/:test_id/result", hm.examHandler.GetResultView)
			exams.GET("/:test_id/leaderboard", hm.examHandler.GetLeaderboard)

			admin := exams.Group("")
			admin.Use(identity.RequireAdmin())
			{
				admin.PUT("/:test_id/status", hm.adminHandler.UpdateTestStatus)
				admin.GET("/:test_id/leaderboard/export", hm.adminHandler.ExportLeaderboard)
			}
		}
	}
}
