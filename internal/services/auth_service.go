package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/auth"
	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

// SignInInput carries dashboard login credentials.
type SignInInput struct {
	Email    string
	Password string
}

// SignInResult carries the issued token and the authenticated user.
type SignInResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService authenticates dashboard users and issues access tokens.
type AuthService struct {
	db  *gorm.DB
	jwt *auth.JWTService
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, jwt *auth.JWTService) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{db: db, jwt: jwt}, nil
}

// SignIn validates the credentials and returns a signed access token.
// Unknown email, wrong password and deactivated account all fail the same
// way so the response does not leak which part was wrong.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	ctx = ensureContext(ctx)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return &SignInResult{Token: token, User: &user}, nil
}

// Me resolves the authenticated user by id.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrUnauthorized
	case err != nil:
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}
	return &user, nil
}
