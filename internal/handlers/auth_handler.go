package handlers

import (
	"errors"

	"filmroom-backend/internal/services"
	"filmroom-backend/internal/utils"
	"filmroom-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	accounts services.AccountService
	logger   *logrus.Logger
}

func NewAuthHandler(accounts services.AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

func authResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		User: result.User,
		Access: TokenResponse{
			Token:   result.Access.Token,
			Expires: result.Access.Expires,
		},
		Refresh: TokenResponse{
			Token:   result.Refresh.Raw,
			Expires: result.Refresh.Expires,
		},
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user; the profile is provisioned automatically
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration form"
// @Success 201 {object} utils.StandardResponse "Account created"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.accounts.Register(c.Context(), validation.RegistrationInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationErrorResponse(c, verr.Fields)
		}
		h.logger.WithError(err).Error("Failed to register user")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Registration successful", authResponse(result))
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} utils.StandardResponse "Token pair"
// @Failure 401 {object} utils.StandardResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.accounts.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		h.logger.WithError(err).Error("Failed to log in user")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log in")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Login successful", authResponse(result))
}

// Logout godoc
// @Summary Log out
// @Description Revoke the refresh token; an unknown token is already logged out
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LogoutRequest true "Refresh token"
// @Success 200 {object} utils.StandardResponse "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.accounts.Logout(c.Context(), req.RefreshToken); err != nil {
		h.logger.WithError(err).Error("Failed to log out user")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log out")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}
