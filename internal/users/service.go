package users

import (
	"context"
	"fmt"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type DBLayer interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service is the credential store: it owns user registration and password
// verification. Plaintext passwords exist only for the duration of a call.
type Service struct {
	DB     DBLayer
	Tokens *auth.TokenService
	Logger *logger.Logger
}

func NewService(db DBLayer, tokens *auth.TokenService, log *logger.Logger) *Service {
	return &Service{DB: db, Tokens: tokens, Logger: log}
}

// Register creates a user with a hashed password verifier. Duplicate
// emails surface as ErrConflict. Roles are immutable after creation.
func (s *Service) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.LogAuth("REGISTER", fmt.Sprintf("user %s registered with role %s", user.Email, user.Role))
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		return "", apperrors.ErrAuthentication
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("bad credentials for %s", email))
		return "", apperrors.ErrAuthentication
	}

	token, err := s.Tokens.Issue(user.Email)
	if err != nil {
		return "", err
	}
	s.Logger.LogAuth("LOGIN", fmt.Sprintf("token issued for %s", email))
	return token, nil
}

// GetUserByEmail resolves a token subject to a user. Implements
// auth.UserResolver for the middleware.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.DB.GetUserByEmail(ctx, email)
}
