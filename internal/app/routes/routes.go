package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/controllers"
	"github.com/veritasedu/veritas/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	configController *controllers.ConfigController,
	examController *controllers.ExamController,
	resultController *controllers.ResultController,
	backupController *controllers.BackupController,
	storageController *controllers.StorageController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Students sit exams without an account; the session id is the only
	// credential for a sitting.
	exams := v1.Group("/exams")
	{
		exams.POST("", examController.StartExam)
		exams.POST("/:id/violations", examController.RecordViolation)
		exams.POST("/:id/submit", examController.SubmitExam)
	}

	// --- Authenticated staff routes ---
	staff := v1.Group("")
	staff.Use(authMiddleware.JWTAuth())
	{
		users := staff.Group("/users")
		{
			users.GET("", userController.ListUsers)
			users.PUT("/:username/password", userController.UpdatePassword)

			directorOnly := users.Group("")
			directorOnly.Use(authMiddleware.RequireDirector())
			{
				directorOnly.POST("", userController.CreateUser)
				directorOnly.DELETE("/:username", userController.DeleteUser)
			}
		}

		configs := staff.Group("/configs")
		{
			configs.GET("", configController.ListConfigs)
			configs.GET("/:subject/:bimester", configController.GetConfig)
			configs.PUT("", configController.UpsertConfig)
		}

		staff.GET("/results", resultController.ListResults)

		storage := staff.Group("/storage")
		{
			storage.GET("/status", storageController.Status)
			storage.POST("/retry", storageController.Retry)
		}

		backup := staff.Group("/backup")
		backup.Use(authMiddleware.RequireDirector())
		{
			backup.GET("", backupController.ExportSnapshot)
			backup.POST("", backupController.ImportSnapshot)
		}
	}
}
