package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zawamu/auth"
	"zawamu/middleware"
	"zawamu/models"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		invalid(c, "All fields are required", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	u, err := h.svc.Profile(ctx, c.GetString(middleware.UserIDKey))
	if errors.Is(err, auth.ErrUserNotFound) {
		notFound(c, "User not found")
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
