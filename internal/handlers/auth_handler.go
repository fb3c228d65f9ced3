package handlers

import (
	"context"
	"net/http"

	"tutor-service/internal/service"
	"tutor-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		LoginID   string `json:"login_id" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		UserType  string `json:"user_type"`
		UserLevel string `json:"user_level"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	user, err := h.Service.Register(context.Background(), req.LoginID, req.Email, req.Password, req.UserType, req.UserLevel)
	if err != nil {
		if err == service.ErrLoginIDTaken {
			utils.ConflictResponse(c, "Login ID already exists")
			return
		}
		utils.InternalErrorResponse(c, "Failed to register user", err)
		return
	}

	utils.SuccessResponse(c, "User registered", user)
}

// Login verifies credentials and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		LoginID  string `json:"login_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	user, token, err := h.Service.Login(context.Background(), req.LoginID, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			utils.UnauthorizedResponse(c, "Invalid login ID or password")
			return
		}
		utils.InternalErrorResponse(c, "Failed to log in", err)
		return
	}

	utils.SuccessResponse(c, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}
