package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/storage"
)

// StorageController exposes the arbiter state and the manual reconnect
type StorageController struct {
	arbiter *storage.Arbiter
}

// NewStorageController creates a new StorageController
func NewStorageController(arbiter *storage.Arbiter) *StorageController {
	return &StorageController{arbiter: arbiter}
}

// Status reports which backend currently serves operations.
func (c *StorageController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.StorageStatusResponse{
			Offline: c.arbiter.IsOffline(),
			State:   string(c.arbiter.State()),
		},
		Timestamp: time.Now(),
	})
}

// Retry triggers the manual reconnect probe. This is the only way back to
// the remote store after a demotion.
func (c *StorageController) Retry(ctx *gin.Context) {
	result := c.arbiter.RetryConnection(ctx)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}
