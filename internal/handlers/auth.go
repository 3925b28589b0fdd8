package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/auth"
	"github.com/settleroom/settleroom/internal/models"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, jwtManager: jwtManager}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// Register creates an account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authenticator.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: newUserResponse(user)})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authenticator.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: newUserResponse(user)})
}
