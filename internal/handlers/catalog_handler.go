package handlers

import (
	"filmroom-backend/internal/services"
	"filmroom-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	catalog services.CatalogService
	logger  *logrus.Logger
}

func NewCatalogHandler(catalog services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {object} utils.StandardResponse "Categories"
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", categories)
}

// ListGenres godoc
// @Summary List genres
// @Tags catalog
// @Produce json
// @Success 200 {object} utils.StandardResponse "Genres"
// @Router /genres [get]
func (h *CatalogHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.catalog.Genres(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list genres")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve genres")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", genres)
}

// PopularMovies godoc
// @Summary Short strip of top-rated movies
// @Tags catalog
// @Produce json
// @Success 200 {object} utils.StandardResponse "Popular movies"
// @Router /movies/popular [get]
func (h *CatalogHandler) PopularMovies(c *fiber.Ctx) error {
	movies, err := h.catalog.PopularMovies(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list popular movies")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve popular movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Popular movies retrieved successfully", movies)
}
