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

// UserController handles staff account management
type UserController struct {
	userRepo *repositories.UserRepository
}

// NewUserController creates a new UserController
func NewUserController(userRepo *repositories.UserRepository) *UserController {
	return &UserController{userRepo: userRepo}
}

// ListUsers returns all staff accounts with passwords stripped.
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userRepo.ListUsers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	for i := range users {
		users[i].Password = ""
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: users, Timestamp: time.Now()})
}

// CreateUser registers a new staff account (director only).
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	user := models.User{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Role:     models.RoleType(req.Role),
	}
	if req.Subject != "" {
		subject := models.Subject(req.Subject)
		user.Subject = &subject
	}

	if err := c.userRepo.CreateUser(ctx, user); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user.Password = ""
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: user, Timestamp: time.Now()})
}

// UpdatePassword changes the authenticated caller's own password.
func (c *UserController) UpdatePassword(ctx *gin.Context) {
	username := ctx.Param("username")

	// Staff can only change their own password.
	if username != ctx.GetString(middleware.ContextUsername) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Cannot change another user's password")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid password data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	if err := c.userRepo.UpdateUserPassword(ctx, username, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Password updated"},
		Timestamp: time.Now(),
	})
}

// DeleteUser removes a staff account (director only).
func (c *UserController) DeleteUser(ctx *gin.Context) {
	username := ctx.Param("username")

	if err := c.userRepo.DeleteUser(ctx, username); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "User removed"},
		Timestamp: time.Now(),
	})
}
