package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"filmroom-backend/internal/middleware"
	"filmroom-backend/internal/policy"
	"filmroom-backend/internal/query"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/services"
	"filmroom-backend/internal/utils"
	"filmroom-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const movieListPath = "/api/v1/movies"

type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

func movieDetailPath(id uint) string {
	return fmt.Sprintf("%s/%d", movieListPath, id)
}

// queryParams normalizes the raw query string through the filter pipeline
// rules. Parse never fails: malformed filter values are dropped silently.
func queryParams(c *fiber.Ctx) query.Params {
	values, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	return query.Parse(values)
}

// ListMovies godoc
// @Summary List movies
// @Description Filtered, sorted, paginated movie list
// @Tags movies
// @Produce json
// @Param q query string false "Search text, whitespace-split into ANDed tokens"
// @Param category query int false "Category id"
// @Param genre query []int false "Genre ids (repeatable)"
// @Param sort query string false "One of -created_at, created_at, title, -title, -rating, rating" default(-created_at)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} utils.StandardResponse "Movie page"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c *fiber.Ctx) error {
	page, err := h.service.ListMovies(c.Context(), queryParams(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", page)
}

// MovieCards godoc
// @Summary Filtered movie fragment
// @Description Unpaginated filtered movie set for in-page refreshes
// @Tags movies
// @Produce json
// @Param q query string false "Search text"
// @Param category query int false "Category id"
// @Param genre query []int false "Genre ids (repeatable)"
// @Success 200 {object} utils.StandardResponse "Filtered movies"
// @Router /movies/cards [get]
func (h *MovieHandler) MovieCards(c *fiber.Ctx) error {
	movies, err := h.service.FilterMovies(c.Context(), queryParams(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to filter movies")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetMovie godoc
// @Summary Get movie by ID
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.StandardResponse "Movie details"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	movie, err := h.service.GetMovie(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to get movie")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve movie")
	}

	user := middleware.CurrentUser(c)
	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", fiber.Map{
		"movie":     movie,
		"is_author": user != nil && movie.AuthorID != nil && *movie.AuthorID == user.ID,
		"is_staff":  user != nil && user.IsStaff,
		"can_edit":  policy.CanModifyMovie(user, movie),
	})
}

// CreateMovie godoc
// @Summary Create a movie
// @Description Create a movie from a multipart form; the submitter becomes its author
// @Tags movies
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title (2-200 chars)"
// @Param description formData string false "Description"
// @Param release_date formData string false "Release date (YYYY-MM-DD, not in the future)"
// @Param category formData int false "Category id"
// @Param genre formData []int false "Genre ids (repeatable)"
// @Param poster formData file false "Poster image, max 5MB"
// @Success 201 {object} utils.StandardResponse "Movie created"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	in, err := parseMovieForm(c)
	if err != nil {
		return h.formError(c, err)
	}

	movie, err := h.service.CreateMovie(c.Context(), user, in)
	if err != nil {
		return h.mutationError(c, err, "Failed to create movie")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", movie)
}

// UpdateMovie godoc
// @Summary Edit a movie
// @Description Edit a movie; only its author or staff may do so
// @Tags movies
// @Accept mpfd
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.StandardResponse "Movie updated"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	in, err := parseMovieForm(c)
	if err != nil {
		return h.formError(c, err)
	}

	movie, err := h.service.UpdateMovie(c.Context(), user, uint(id), in)
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return utils.RedirectWithError(c, movieDetailPath(uint(id)), "You do not have permission to edit this movie")
		}
		return h.mutationError(c, err, "Failed to update movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie updated successfully", movie)
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Description Delete a movie and its poster blob; only its author or staff may do so
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.StandardResponse "Movie deleted"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	if err := h.service.DeleteMovie(c.Context(), user, uint(id)); err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return utils.RedirectWithError(c, movieDetailPath(uint(id)), "You do not have permission to delete this movie")
		}
		return h.mutationError(c, err, "Failed to delete movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie deleted successfully", nil)
}

func (h *MovieHandler) formError(c *fiber.Ctx, err error) error {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return utils.ValidationErrorResponse(c, verr.Fields)
	}
	return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
}

// mutationError maps the remaining service failures: field errors re-render
// the form, missing records 404, anything else is a server failure.
func (h *MovieHandler) mutationError(c *fiber.Ctx, err error, logMsg string) error {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, repository.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}
	h.logger.WithError(err).Error(logMsg)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, logMsg)
}
