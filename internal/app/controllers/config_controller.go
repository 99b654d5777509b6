package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/app/repositories"
	"github.com/veritasedu/veritas/internal/middleware"
)

// ConfigController handles teacher exam configurations
type ConfigController struct {
	configRepo *repositories.ConfigRepository
}

// NewConfigController creates a new ConfigController
func NewConfigController(configRepo *repositories.ConfigRepository) *ConfigController {
	return &ConfigController{configRepo: configRepo}
}

// ListConfigs returns every stored configuration.
func (c *ConfigController) ListConfigs(ctx *gin.Context) {
	configs, err := c.configRepo.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: configs, Timestamp: time.Now()})
}

// GetConfig returns the configuration for one (subject, bimester) pair.
func (c *ConfigController) GetConfig(ctx *gin.Context) {
	subject := models.Subject(ctx.Param("subject"))
	bimester := models.Bimester(ctx.Param("bimester"))

	cfg, err := c.configRepo.Get(ctx, subject, bimester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: cfg, Timestamp: time.Now()})
}

// UpsertConfig replaces the configuration for its (subject, bimester) key.
func (c *ConfigController) UpsertConfig(ctx *gin.Context) {
	var req dto.UpsertConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid config data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	cfg := models.TeacherConfig{
		Subject:        models.Subject(req.Subject),
		Bimester:       models.Bimester(req.Bimester),
		Topics:         req.Topics,
		IsActive:       req.IsActive,
		LastModifiedBy: ctx.GetString(middleware.ContextUsername),
	}

	if err := c.configRepo.Upsert(ctx, cfg); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: cfg, Timestamp: time.Now()})
}
