package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"filmroom-backend/internal/config"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/policy"
	"filmroom-backend/internal/query"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

// Upload is an incoming multipart file: posters on the movie forms, avatars
// on the profile form.
type Upload struct {
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// MovieInput is the submitted movie form. Rating is only honored on the
// edit path.
type MovieInput struct {
	Title       string
	Description string
	ReleaseDate *time.Time
	Rating      float64
	CategoryID  *uint
	GenreIDs    []uint
	Poster      *Upload
}

// MoviePage is one window of the filtered movie collection plus the
// navigation metadata and the normalized filter params for echoing back.
type MoviePage struct {
	Items         []models.Movie `json:"items"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"total_pages"`
	HasOtherPages bool           `json:"has_other_pages"`
	Params        query.Params   `json:"params"`
}

type MovieService interface {
	ListMovies(ctx context.Context, p query.Params) (*MoviePage, error)
	FilterMovies(ctx context.Context, p query.Params) ([]models.Movie, error)
	GetMovie(ctx context.Context, id uint) (*models.Movie, error)
	CreateMovie(ctx context.Context, author *models.User, in MovieInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, user *models.User, id uint, in MovieInput) (*models.Movie, error)
	DeleteMovie(ctx context.Context, user *models.User, id uint) error
}

type movieService struct {
	repo         repository.MovieRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	storage      ObjectStorage
	config       *config.Config
	logger       *logrus.Logger
}

func NewMovieService(
	repo repository.MovieRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	storage ObjectStorage,
	cfg *config.Config,
	logger *logrus.Logger,
) MovieService {
	return &movieService{
		repo:         repo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		storage:      storage,
		config:       cfg,
		logger:       logger,
	}
}

// ListMovies runs the full query pipeline: filter, count, clamp the page
// into range, then fetch one page in the requested order.
func (s *movieService) ListMovies(ctx context.Context, p query.Params) (*MoviePage, error) {
	total, err := s.repo.Count(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}

	pageSize := s.config.App.PageSize
	totalPages := query.TotalPages(total, pageSize)
	p.Page = query.ClampPage(p.Page, totalPages)

	items, err := s.repo.List(ctx, p, (p.Page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return &MoviePage{
		Items:         items,
		Page:          p.Page,
		TotalPages:    totalPages,
		HasOtherPages: totalPages > 1,
		Params:        p,
	}, nil
}

// FilterMovies backs the fragment endpoint: the same filter stages without
// pagination.
func (s *movieService) FilterMovies(ctx context.Context, p query.Params) ([]models.Movie, error) {
	items, err := s.repo.List(ctx, p, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to filter movies: %w", err)
	}
	return items, nil
}

func (s *movieService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *movieService) CreateMovie(ctx context.Context, author *models.User, in MovieInput) (*models.Movie, error) {
	if err := validation.ValidateMovie(movieFields(in), time.Now()); err != nil {
		return nil, err
	}

	genres, err := s.resolveRefs(ctx, &in)
	if err != nil {
		return nil, err
	}

	posterKey, err := s.storePoster(ctx, in.Poster)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		Title:       in.Title,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		PosterKey:   posterKey,
		CategoryID:  in.CategoryID,
		AuthorID:    &author.ID,
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	if len(genres) > 0 {
		if err := s.repo.ReplaceGenres(ctx, movie, genres); err != nil {
			return nil, fmt.Errorf("failed to attach genres: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"author":   author.Username,
	}).Info("Movie created")

	return s.repo.FindByID(ctx, movie.ID)
}

func (s *movieService) UpdateMovie(ctx context.Context, user *models.User, id uint, in MovieInput) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyMovie(user, movie) {
		return nil, ErrPermissionDenied
	}

	if err := validation.ValidateMovieEdit(movieFields(in), time.Now()); err != nil {
		return nil, err
	}

	genres, err := s.resolveRefs(ctx, &in)
	if err != nil {
		return nil, err
	}

	oldPosterKey := movie.PosterKey
	if in.Poster != nil {
		posterKey, err := s.storePoster(ctx, in.Poster)
		if err != nil {
			return nil, err
		}
		movie.PosterKey = posterKey
	}

	movie.Title = in.Title
	movie.Description = in.Description
	movie.ReleaseDate = in.ReleaseDate
	movie.Rating = in.Rating
	movie.CategoryID = in.CategoryID
	movie.Category = nil
	movie.Genres = nil

	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	if err := s.repo.ReplaceGenres(ctx, movie, genres); err != nil {
		return nil, fmt.Errorf("failed to replace genres: %w", err)
	}

	// Replaced poster blob goes away best effort.
	if in.Poster != nil && oldPosterKey != "" && oldPosterKey != movie.PosterKey {
		if err := s.storage.Delete(ctx, oldPosterKey); err != nil {
			s.logger.WithError(err).WithField("objectKey", oldPosterKey).Warn("Failed to delete old poster")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"user":     user.Username,
	}).Info("Movie updated")

	return s.repo.FindByID(ctx, movie.ID)
}

// DeleteMovie removes the record and then its poster blob. The blob delete
// is best effort: a storage failure is logged and never blocks or undoes
// the record deletion.
func (s *movieService) DeleteMovie(ctx context.Context, user *models.User, id uint) error {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanModifyMovie(user, movie) {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if movie.PosterKey != "" {
		if err := s.storage.Delete(ctx, movie.PosterKey); err != nil {
			s.logger.WithError(err).WithField("objectKey", movie.PosterKey).Warn("Failed to delete poster blob")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"movie_id": id,
		"user":     user.Username,
	}).Info("Movie deleted")

	return nil
}

func movieFields(in MovieInput) validation.MovieInput {
	return validation.MovieInput{
		Title:       in.Title,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		Rating:      in.Rating,
	}
}

// resolveRefs verifies the submitted category and genre ids against the
// reference data and returns the genre records to attach.
func (s *movieService) resolveRefs(ctx context.Context, in *MovieInput) ([]models.Genre, error) {
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repository.ErrNotFound {
				return nil, validation.FieldError("category", "Unknown category")
			}
			return nil, err
		}
	}

	genres, err := s.genreRepo.FindByIDs(ctx, in.GenreIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	if len(genres) != len(in.GenreIDs) {
		return nil, validation.FieldError("genres", "Unknown genre selection")
	}
	return genres, nil
}

func (s *movieService) storePoster(ctx context.Context, up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	if err := validation.ValidateUpload("poster", up.Size, up.ContentType, s.config.App.MaxPosterSize); err != nil {
		return "", err
	}
	key, err := s.storage.Upload(ctx, "posters", up.Filename, up.Reader, up.Size, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store poster: %w", err)
	}
	return key, nil
}
