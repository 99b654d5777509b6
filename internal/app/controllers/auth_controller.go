package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritasedu/veritas/internal/app/models/dto"
	"github.com/veritasedu/veritas/internal/app/services"
	"github.com/veritasedu/veritas/internal/middleware"
)

// AuthController handles staff authentication
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login authenticates a staff user and returns a bearer token.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	user, token, expiresIn, err := c.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.LoginResponse{
			Token:     token,
			ExpiresIn: expiresIn,
			User:      user,
		},
		Timestamp: time.Now(),
	})
}
