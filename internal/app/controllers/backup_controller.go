package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/app/services"
	"github.com/veritasedu/veritas/internal/middleware"
)

// BackupController handles snapshot export and import
type BackupController struct {
	backupService services.BackupService
}

// NewBackupController creates a new BackupController
func NewBackupController(backupService services.BackupService) *BackupController {
	return &BackupController{backupService: backupService}
}

// ExportSnapshot streams the full entity set as a JSON attachment.
func (c *BackupController) ExportSnapshot(ctx *gin.Context) {
	snapshot, err := c.backupService.Export(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := "veritas-backup-" + time.Now().Format("2006-01-02") + ".json"
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(snapshot))
}

// ImportSnapshot replays a snapshot into the active backend. A malformed
// snapshot is reported as imported=false, not as an error.
func (c *BackupController) ImportSnapshot(ctx *gin.Context) {
	var req dto.ImportBackupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid backup payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	imported := c.backupService.Import(ctx, req.Snapshot)

	status := http.StatusOK
	if !imported {
		status = http.StatusUnprocessableEntity
	}
	ctx.JSON(status, dto.APIResponse{
		Data:      dto.ImportResponse{Imported: imported},
		Timestamp: time.Now(),
	})
}
