package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/app/repositories"
	"github.com/veritasedu/veritas/internal/middleware"
)

// ResultController exposes the stored exam results to staff
type ResultController struct {
	resultRepo *repositories.ResultRepository
}

// NewResultController creates a new ResultController
func NewResultController(resultRepo *repositories.ResultRepository) *ResultController {
	return &ResultController{resultRepo: resultRepo}
}

// ListResults returns every stored exam attempt.
func (c *ResultController) ListResults(ctx *gin.Context) {
	results, err := c.resultRepo.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: results, Timestamp: time.Now()})
}
