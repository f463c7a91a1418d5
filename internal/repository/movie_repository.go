package repository

import (
	"context"
	"errors"
	"time"

	"filmroom-backend/internal/database"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/query"

	"gorm.io/gorm"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Movie, error)
	FindByAuthor(ctx context.Context, authorID uint) ([]models.Movie, error)
	Count(ctx context.Context, p query.Params) (int64, error)
	List(ctx context.Context, p query.Params, offset, limit int) ([]models.Movie, error)
	TopRated(ctx context.Context, limit int) ([]models.Movie, error)
	ReplaceGenres(ctx context.Context, movie *models.Movie, genres []models.Genre) error
}

type movieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *movieRepository) Update(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *movieRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)
	if err := db.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Movie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Genres").Preload("Author").
		First(&movie, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByAuthor(ctx context.Context, authorID uint) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Genres").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&movies).Error
	return movies, err
}

// filtered applies the query-pipeline stages in order: search tokens,
// category equality, genre membership. Each token must match the title or
// the description; tokens are ANDed. The genre filter uses a membership
// subquery so matching several selected genres never duplicates a movie.
func (r *movieRepository) filtered(db *gorm.DB, p query.Params) *gorm.DB {
	q := db.Model(&models.Movie{})

	for _, token := range p.Tokens {
		pattern := "%" + token + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	if p.CategoryID != 0 {
		q = q.Where("category_id = ?", p.CategoryID)
	}

	if len(p.GenreIDs) > 0 {
		sub := db.Model(&models.MovieGenre{}).
			Select("movie_id").
			Where("genre_id IN ?", p.GenreIDs)
		q = q.Where("movies.id IN (?)", sub)
	}

	return q
}

func (r *movieRepository) Count(ctx context.Context, p query.Params) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.filtered(r.db.WithContext(ctx), p).Count(&total).Error
	return total, err
}

// List returns one window of the filtered, ordered movie collection.
// A negative limit disables pagination (the fragment endpoint uses this).
func (r *movieRepository) List(ctx context.Context, p query.Params, offset, limit int) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	err := r.filtered(r.db.WithContext(ctx), p).
		Order(p.OrderClause()).
		Offset(offset).
		Limit(limit).
		Preload("Category").Preload("Genres").Preload("Author").
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) TopRated(ctx context.Context, limit int) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	err := r.db.WithContext(ctx).
		Order("rating DESC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) ReplaceGenres(ctx context.Context, movie *models.Movie, genres []models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(movie).Association("Genres").Replace(genres)
}
