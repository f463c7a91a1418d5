package middleware

import (
	"strings"

	"filmroom-backend/internal/auth"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/services"
	"filmroom-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "current_user"

// RequireAuth validates the Bearer access token, loads the user and stores
// it in the request locals. An unauthenticated request is sent to the login
// page with a message, mirroring the login-required behavior of the site.
func RequireAuth(secret string, accounts services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := resolveUser(c, secret, accounts)
		if !ok {
			return utils.RedirectWithError(c, "/api/v1/auth/login", "Please log in to continue")
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and carries
// on anonymously otherwise. Detail and list views use it for the
// is_author/is_staff flags.
func OptionalAuth(secret string, accounts services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, ok := resolveUser(c, secret, accounts); ok {
			c.Locals(userLocalKey, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by the middleware, or
// nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

func resolveUser(c *fiber.Ctx, secret string, accounts services.AccountService) (*models.User, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims, err := auth.ParseAccessToken(secret, raw)
	if err != nil {
		return nil, false
	}

	user, err := accounts.GetUser(c.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}
