package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/aryasetia/doorguard/internal/auth"
	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// AuthHandler exposes sign-in and session introspection endpoints.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	service, err := services.NewAuthService(db, jwt)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{service: service}, nil
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn validates credentials and issues an access token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var payload signInRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.SignIn(requestContext(c), services.SignInInput{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SignOut acknowledges a sign-out. Tokens are stateless, the client simply
// drops its copy.
func (h *AuthHandler) SignOut(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"signed_out": true})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.service.Me(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
