package handlers

import (
	"errors"

	"filmroom-backend/internal/middleware"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/services"
	"filmroom-backend/internal/utils"
	"filmroom-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const ownProfilePath = "/api/v1/profile"

type ProfileHandler struct {
	profiles services.ProfileService
	logger   *logrus.Logger
}

func NewProfileHandler(profiles services.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// GetProfile godoc
// @Summary View a user's public profile
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} utils.StandardResponse "Profile with the user's movies"
// @Failure 404 {object} utils.StandardResponse "User not found"
// @Router /profiles/{username} [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	view, err := h.profiles.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}
		h.logger.WithError(err).Error("Failed to load profile")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve profile")
	}

	user := middleware.CurrentUser(c)
	return utils.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", fiber.Map{
		"user":     view.User,
		"profile":  view.Profile,
		"movies":   view.Movies,
		"is_owner": user != nil && user.ID == view.User.ID,
	})
}

// GetOwnProfile godoc
// @Summary View your own profile
// @Tags profiles
// @Produce json
// @Success 200 {object} utils.StandardResponse "Own profile"
// @Router /profile [get]
func (h *ProfileHandler) GetOwnProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	view, err := h.profiles.GetByUserID(c.Context(), user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load own profile")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve profile")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", view)
}

// UpdateProfile godoc
// @Summary Edit your own profile
// @Tags profiles
// @Accept mpfd
// @Produce json
// @Param bio formData string false "Bio, max 500 chars"
// @Param birth_date formData string false "Birth date (YYYY-MM-DD)"
// @Param phone formData string false "Phone"
// @Param avatar formData file false "Avatar image, max 2MB"
// @Success 200 {object} utils.StandardResponse "Profile updated"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	in, err := parseProfileForm(c)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationErrorResponse(c, verr.Fields)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.profiles.UpdateProfile(c.Context(), user, user.ID, in)
	if err != nil {
		var verr *validation.ValidationError
		switch {
		case errors.As(err, &verr):
			return utils.ValidationErrorResponse(c, verr.Fields)
		case errors.Is(err, services.ErrPermissionDenied):
			return utils.RedirectWithError(c, ownProfilePath, "You can only edit your own profile")
		}
		h.logger.WithError(err).Error("Failed to update profile")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", profile)
}
