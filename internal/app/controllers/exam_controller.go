package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/app/services"
	"github.com/veritasedu/veritas/internal/middleware"
)

// ExamController handles the student-facing exam session flow
type ExamController struct {
	examService services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// StartExam opens a new sitting and returns the shuffled questions.
func (c *ExamController) StartExam(ctx *gin.Context) {
	var req dto.StartExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam request")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	started, err := c.examService.Start(ctx, models.ExamConfig{
		StudentName:  req.StudentName,
		StudentClass: req.StudentClass,
		Subject:      models.Subject(req.Subject),
		Bimester:     models.Bimester(req.Bimester),
		Difficulty:   models.Difficulty(req.Difficulty),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: started, Timestamp: time.Now()})
}

// RecordViolation registers one focus-loss event for a sitting.
func (c *ExamController) RecordViolation(ctx *gin.Context) {
	sessionID := ctx.Param("id")

	violations, outcome, err := c.examService.RecordViolation(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ViolationResponse{
		Violations: violations,
		Terminated: outcome != nil,
	}
	if outcome != nil {
		resp.Outcome = outcome
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// SubmitExam grades the answers and persists the result.
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	sessionID := ctx.Param("id")

	var req dto.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid answers payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	outcome, err := c.examService.Submit(ctx, sessionID, req.Answers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: outcome, Timestamp: time.Now()})
}
