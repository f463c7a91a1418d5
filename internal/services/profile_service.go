package services

import (
	"context"
	"fmt"
	"time"

	"filmroom-backend/internal/config"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/policy"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

// ProfileInput is the submitted profile form.
type ProfileInput struct {
	Bio       string
	BirthDate *time.Time
	Phone     string
	Avatar    *Upload
}

// ProfileView bundles a user, their profile and their movies for the
// profile page.
type ProfileView struct {
	User    *models.User        `json:"user"`
	Profile *models.UserProfile `json:"profile"`
	Movies  []models.Movie      `json:"movies"`
}

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*ProfileView, error)
	GetByUserID(ctx context.Context, userID uint) (*ProfileView, error)
	UpdateProfile(ctx context.Context, requester *models.User, targetUserID uint, in ProfileInput) (*models.UserProfile, error)
}

type profileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	movies   repository.MovieRepository
	storage  ObjectStorage
	config   *config.Config
	logger   *logrus.Logger
}

func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	movies repository.MovieRepository,
	storage ObjectStorage,
	cfg *config.Config,
	logger *logrus.Logger,
) ProfileService {
	return &profileService{
		users:    users,
		profiles: profiles,
		movies:   movies,
		storage:  storage,
		config:   cfg,
		logger:   logger,
	}
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*ProfileView, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, user)
}

func (s *profileService) GetByUserID(ctx context.Context, userID uint) (*ProfileView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, user)
}

// buildView reads the profile through GetOrCreate so accounts that predate
// automatic provisioning get one on first view instead of a missing-row
// failure.
func (s *profileService) buildView(ctx context.Context, user *models.User) (*ProfileView, error) {
	profile, err := s.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	movies, err := s.movies.FindByAuthor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user movies: %w", err)
	}

	return &ProfileView{User: user, Profile: profile, Movies: movies}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, requester *models.User, targetUserID uint, in ProfileInput) (*models.UserProfile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if !policy.CanModifyProfile(requester, profile) {
		return nil, ErrPermissionDenied
	}

	if err := validation.ValidateProfile(validation.ProfileInput{
		Bio:       in.Bio,
		BirthDate: in.BirthDate,
		Phone:     in.Phone,
	}); err != nil {
		return nil, err
	}

	oldAvatarKey := profile.AvatarKey
	if in.Avatar != nil {
		if err := validation.ValidateUpload("avatar", in.Avatar.Size, in.Avatar.ContentType, s.config.App.MaxAvatarSize); err != nil {
			return nil, err
		}
		key, err := s.storage.Upload(ctx, "avatars", in.Avatar.Filename, in.Avatar.Reader, in.Avatar.Size, in.Avatar.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store avatar: %w", err)
		}
		profile.AvatarKey = key
	}

	profile.Bio = in.Bio
	profile.BirthDate = in.BirthDate
	profile.Phone = in.Phone

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if in.Avatar != nil && oldAvatarKey != "" && oldAvatarKey != profile.AvatarKey {
		if err := s.storage.Delete(ctx, oldAvatarKey); err != nil {
			s.logger.WithError(err).WithField("objectKey", oldAvatarKey).Warn("Failed to delete old avatar")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"user":       requester.Username,
	}).Info("Profile updated")

	return profile, nil
}
