package routes

import (
	"filmroom-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Movies   *handlers.MovieHandler
	Auth     *handlers.AuthHandler
	Profiles *handlers.ProfileHandler
	Catalog  *handlers.CatalogHandler
}

// Middleware carries the auth guards; RequireAuth redirects anonymous
// requests to the login route, OptionalAuth only resolves the user.
type Middleware struct {
	RequireAuth  fiber.Handler
	OptionalAuth fiber.Handler
}

func Setup(app *fiber.App, h Handlers, mw Middleware) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Movie routes - list, fragment, detail, CRUD. Static segments are
	// registered before the :id parameter.
	movies := v1.Group("/movies")
	{
		movies.Get("/", mw.OptionalAuth, h.Movies.ListMovies)
		movies.Get("/cards", h.Movies.MovieCards)
		movies.Get("/popular", h.Catalog.PopularMovies)
		movies.Get("/:id", mw.OptionalAuth, h.Movies.GetMovie)
		movies.Post("/", mw.RequireAuth, h.Movies.CreateMovie)
		movies.Put("/:id", mw.RequireAuth, h.Movies.UpdateMovie)
		movies.Delete("/:id", mw.RequireAuth, h.Movies.DeleteMovie)
	}

	// Auth routes - registration and session lifecycle
	auth := v1.Group("/auth")
	{
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.Post("/logout", h.Auth.Logout)
	}

	// Reference data shown on every page
	v1.Get("/categories", h.Catalog.ListCategories)
	v1.Get("/genres", h.Catalog.ListGenres)

	// Profile routes - own profile before the username parameter
	v1.Get("/profile", mw.RequireAuth, h.Profiles.GetOwnProfile)
	v1.Put("/profile", mw.RequireAuth, h.Profiles.UpdateProfile)
	v1.Get("/profiles/:username", mw.OptionalAuth, h.Profiles.GetProfile)
}
