package services

import (
	"context"
	"encoding/json"
	"fmt"

	"filmroom-backend/internal/config"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyGenres     = "catalog:genres"
	cacheKeyPopular    = "catalog:popular"

	popularMoviesLimit = 5
)

// CatalogService serves the shared reference data shown on every page:
// categories, genres and a short popular-movies strip. Reads go through a
// Redis cache; a cache failure falls back to the database.
type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	PopularMovies(ctx context.Context) ([]models.Movie, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	movies     repository.MovieRepository
	cache      *redis.Client
	config     *config.Config
	logger     *logrus.Logger
}

func NewCatalogService(
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	movies repository.MovieRepository,
	cache *redis.Client,
	cfg *config.Config,
	logger *logrus.Logger,
) CatalogService {
	return &catalogService{
		categories: categories,
		genres:     genres,
		movies:     movies,
		cache:      cache,
		config:     cfg,
		logger:     logger,
	}
}

func (s *catalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.fromCache(ctx, cacheKeyCategories, &categories) {
		return categories, nil
	}

	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	s.toCache(ctx, cacheKeyCategories, categories)
	return categories, nil
}

func (s *catalogService) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if s.fromCache(ctx, cacheKeyGenres, &genres) {
		return genres, nil
	}

	genres, err := s.genres.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}

	s.toCache(ctx, cacheKeyGenres, genres)
	return genres, nil
}

func (s *catalogService) PopularMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if s.fromCache(ctx, cacheKeyPopular, &movies) {
		return movies, nil
	}

	movies, err := s.movies.TopRated(ctx, popularMoviesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular movies: %w", err)
	}

	s.toCache(ctx, cacheKeyPopular, movies)
	return movies, nil
}

func (s *catalogService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("Failed to decode cached value")
		return false
	}
	return true
}

func (s *catalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.config.App.CacheTTL).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("Failed to cache value")
	}
}
