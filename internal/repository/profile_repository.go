package repository

import (
	"context"
	"errors"
	"time"

	"filmroom-backend/internal/database"
	"filmroom-backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error
}

type profileRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewProfileRepository(db *database.Database) ProfileRepository {
	return &profileRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *profileRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// GetOrCreate returns the user's profile, creating a default one when it
// does not exist yet. The unique index on user_id resolves concurrent
// creation attempts: a losing insert downgrades to a fetch of the winner's
// row, so calling this twice never errors.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID uint) (*models.UserProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)

	var profile models.UserProfile
	err := db.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.UserProfile{UserID: userID}).Error
	if err == nil {
		return &profile, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// Lost the race; the profile exists now.
	err = db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Save(profile).Error
}
