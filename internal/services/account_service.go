package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"filmroom-backend/internal/auth"
	"filmroom-backend/internal/config"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

// AuthResult is what a successful register or login hands back: the user
// plus a fresh token pair.
type AuthResult struct {
	User    *models.User
	Access  auth.AccessToken
	Refresh auth.RefreshToken
}

type AccountService interface {
	Register(ctx context.Context, in validation.RegistrationInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Logout(ctx context.Context, refreshRaw string) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type accountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	sessions SessionStore
	config   *config.Config
	logger   *logrus.Logger
}

func NewAccountService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	sessions SessionStore,
	cfg *config.Config,
	logger *logrus.Logger,
) AccountService {
	return &accountService{
		users:    users,
		profiles: profiles,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// Register validates the form, creates the user and provisions the profile
// in the same flow. Uniqueness conflicts from the insert come back as field
// errors so the form can re-render.
func (s *accountService) Register(ctx context.Context, in validation.RegistrationInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.config.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, validation.FieldError("username", "This username is already taken")
		case errors.Is(err, repository.ErrEmailExists):
			return nil, validation.FieldError("email", "This email is already in use")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Every account gets its profile the moment it exists. GetOrCreate is
	// idempotent, so a concurrent duplicate attempt is harmless.
	if _, err := s.profiles.GetOrCreate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	s.logger.WithField("username", user.Username).Info("User registered")

	return s.issueTokens(ctx, user)
}

func (s *accountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("username", user.Username).Info("User logged in")

	return s.issueTokens(ctx, user)
}

func (s *accountService) Logout(ctx context.Context, refreshRaw string) error {
	err := s.sessions.Revoke(ctx, auth.HashRefreshToken(refreshRaw))
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *accountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *accountService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, err := auth.NewAccessToken(s.config.Auth.JWTSecret, user.ID, user.Username, user.IsStaff, s.config.Auth.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := auth.NewRefreshToken(s.config.Auth.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.sessions.StoreRefresh(ctx, user.ID, auth.HashRefreshToken(refresh.Raw), refresh.Expires); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &AuthResult{User: user, Access: access, Refresh: refresh}, nil
}
