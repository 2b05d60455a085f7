package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/buyer-leads-service/internal/auth"
	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
	apperrors "github.com/spec-kit/buyer-leads-service/pkg/util"
)

// AuthService implements the demo login: a bare email identifies (and on
// first sight creates) a user, and the session is a signed bearer token.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login resolves or creates the user for email and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, name string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email required", nil)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid email", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
		user = &domain.User{Email: email}
		if name = strings.TrimSpace(name); name != "" {
			user.Name = &name
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", time.Time{}, err
		}
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}
