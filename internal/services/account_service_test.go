package services

import (
	"context"
	"testing"
	"time"

	"filmroom-backend/internal/auth"
	"filmroom-backend/internal/config"
	"filmroom-backend/internal/validation"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type accountTestEnv struct {
	service  AccountService
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	sessions *fakeSessionStore
}

func newAccountTestEnv() *accountTestEnv {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			BcryptCost: bcrypt.MinCost,
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
	}
	env := &accountTestEnv{
		users:    newFakeUserRepo(),
		profiles: newFakeProfileRepo(),
		sessions: newFakeSessionStore(),
	}
	env.service = NewAccountService(env.users, env.profiles, env.sessions, cfg, testLogger())
	return env
}

func validRegistration() validation.RegistrationInput {
	return validation.RegistrationInput{
		Username: "moviefan",
		Email:    "fan@example.com",
		Password: "s3cret-pass",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account with tokens and a session", func(t *testing.T) {
		env := newAccountTestEnv()

		result, err := env.service.Register(ctx, validRegistration())

		require.NoError(t, err)
		require.NotZero(t, result.User.ID)
		require.NotEmpty(t, result.Access.Token)
		require.NotEmpty(t, result.Refresh.Raw)
		require.Len(t, env.sessions.sessions, 1)

		claims, err := auth.ParseAccessToken("test-secret", result.Access.Token)
		require.NoError(t, err)
		require.Equal(t, result.User.ID, claims.UserID)
		require.Equal(t, "moviefan", claims.Username)
		require.False(t, claims.IsStaff)
	})

	t.Run("provisions the profile exactly once", func(t *testing.T) {
		env := newAccountTestEnv()

		result, err := env.service.Register(ctx, validRegistration())
		require.NoError(t, err)
		require.Equal(t, 1, env.profiles.created)

		// A later lookup reuses the provisioned row.
		_, err = env.profiles.GetOrCreate(ctx, result.User.ID)
		require.NoError(t, err)
		require.Equal(t, 1, env.profiles.created)
	})

	t.Run("duplicate username is a field error and no second profile appears", func(t *testing.T) {
		env := newAccountTestEnv()

		_, err := env.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		dup := validRegistration()
		dup.Email = "other@example.com"
		_, err = env.service.Register(ctx, dup)

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "username")
		require.Equal(t, 1, env.profiles.created)
	})

	t.Run("duplicate email is a field error", func(t *testing.T) {
		env := newAccountTestEnv()

		_, err := env.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		dup := validRegistration()
		dup.Username = "otherfan"
		_, err = env.service.Register(ctx, dup)

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "email")
	})

	t.Run("email is trimmed and lowercased", func(t *testing.T) {
		env := newAccountTestEnv()

		in := validRegistration()
		in.Email = "  Fan@Example.COM  "
		result, err := env.service.Register(ctx, in)

		require.NoError(t, err)
		require.Equal(t, "fan@example.com", result.User.Email)
	})

	t.Run("invalid form never reaches the repository", func(t *testing.T) {
		env := newAccountTestEnv()

		in := validRegistration()
		in.Username = "ab"
		_, err := env.service.Register(ctx, in)

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "username")
		require.Empty(t, env.users.users)
		require.Zero(t, env.profiles.created)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	env := newAccountTestEnv()
	_, err := env.service.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		result, err := env.service.Login(ctx, "moviefan", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, "moviefan", result.User.Username)
		require.NotEmpty(t, result.Access.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.service.Login(ctx, "moviefan", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := env.service.Login(ctx, "nobody", "s3cret-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := env.service.Login(ctx, "moviefan", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	env := newAccountTestEnv()
	result, err := env.service.Register(ctx, validRegistration())
	require.NoError(t, err)

	hash := auth.HashRefreshToken(result.Refresh.Raw)
	_, err = env.sessions.Lookup(ctx, hash)
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(ctx, result.Refresh.Raw))

	_, err = env.sessions.Lookup(ctx, hash)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Logging out an already-revoked token is not an error.
	require.NoError(t, env.service.Logout(ctx, result.Refresh.Raw))
}
