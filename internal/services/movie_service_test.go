package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"filmroom-backend/internal/config"
	"filmroom-backend/internal/models"
	"filmroom-backend/internal/query"
	"filmroom-backend/internal/repository"
	"filmroom-backend/internal/validation"

	"github.com/stretchr/testify/require"
)

type movieTestEnv struct {
	service    MovieService
	movies     *fakeMovieRepo
	categories *fakeCategoryRepo
	genres     *fakeGenreRepo
	storage    *fakeStorage
}

func newMovieTestEnv() *movieTestEnv {
	cfg := &config.Config{
		App: config.AppConfig{
			PageSize:      config.DefaultPageSize,
			MaxPosterSize: config.DefaultMaxPosterSize,
			MaxAvatarSize: config.DefaultMaxAvatarSize,
		},
	}
	env := &movieTestEnv{
		movies:     newFakeMovieRepo(),
		categories: &fakeCategoryRepo{categories: map[uint]models.Category{}},
		genres:     &fakeGenreRepo{genres: map[uint]models.Genre{}},
		storage:    newFakeStorage(),
	}
	env.service = NewMovieService(env.movies, env.categories, env.genres, env.storage, cfg, testLogger())
	return env
}

func (env *movieTestEnv) seedMovie(t *testing.T, author *models.User, title string) *models.Movie {
	t.Helper()
	movie, err := env.service.CreateMovie(context.Background(), author, MovieInput{
		Title:  title,
		Poster: pngUpload(title + ".png"),
	})
	require.NoError(t, err)
	return movie
}

func pngUpload(name string) *Upload {
	return &Upload{
		Filename:    name,
		Reader:      strings.NewReader("png-bytes"),
		Size:        1024,
		ContentType: "image/png",
	}
}

func TestCreateMovie(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "author"}

	t.Run("valid input creates the record and stores the poster", func(t *testing.T) {
		env := newMovieTestEnv()
		release := time.Date(2020, 7, 16, 0, 0, 0, 0, time.UTC)

		movie, err := env.service.CreateMovie(ctx, author, MovieInput{
			Title:       "Test Movie",
			Description: "A movie about testing",
			ReleaseDate: &release,
			Poster:      pngUpload("poster.png"),
		})

		require.NoError(t, err)
		require.NotZero(t, movie.ID)
		require.Equal(t, "Test Movie", movie.Title)
		require.NotNil(t, movie.AuthorID)
		require.Equal(t, author.ID, *movie.AuthorID)
		require.NotEmpty(t, movie.PosterKey)
		require.True(t, env.storage.objects[movie.PosterKey])
	})

	t.Run("short title is rejected and nothing is stored", func(t *testing.T) {
		env := newMovieTestEnv()

		_, err := env.service.CreateMovie(ctx, author, MovieInput{Title: "A"})

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "title")
		require.Empty(t, env.movies.movies)
	})

	t.Run("submitted rating is ignored on create", func(t *testing.T) {
		env := newMovieTestEnv()

		movie, err := env.service.CreateMovie(ctx, author, MovieInput{Title: "Test Movie", Rating: 99})

		require.NoError(t, err)
		require.Zero(t, movie.Rating)
	})

	t.Run("unknown category is a field error", func(t *testing.T) {
		env := newMovieTestEnv()
		missing := uint(42)

		_, err := env.service.CreateMovie(ctx, author, MovieInput{Title: "Test Movie", CategoryID: &missing})

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "category")
	})

	t.Run("unknown genre is a field error", func(t *testing.T) {
		env := newMovieTestEnv()
		env.genres.genres[1] = models.Genre{ID: 1, Name: "Drama"}

		_, err := env.service.CreateMovie(ctx, author, MovieInput{Title: "Test Movie", GenreIDs: []uint{1, 99}})

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "genres")
	})

	t.Run("oversized poster is rejected before anything is stored", func(t *testing.T) {
		env := newMovieTestEnv()
		poster := pngUpload("huge.png")
		poster.Size = config.DefaultMaxPosterSize + 1

		_, err := env.service.CreateMovie(ctx, author, MovieInput{Title: "Test Movie", Poster: poster})

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "poster")
		require.Empty(t, env.movies.movies)
		require.Empty(t, env.storage.objects)
	})
}

func TestUpdateMovie(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "author"}
	staff := &models.User{ID: 2, Username: "admin", IsStaff: true}
	stranger := &models.User{ID: 3, Username: "stranger"}

	t.Run("author can edit, rating included", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		updated, err := env.service.UpdateMovie(ctx, author, movie.ID, MovieInput{
			Title:  "Test Movie (Director's Cut)",
			Rating: 8.5,
		})

		require.NoError(t, err)
		require.Equal(t, "Test Movie (Director's Cut)", updated.Title)
		require.Equal(t, 8.5, updated.Rating)
	})

	t.Run("staff can edit someone else's movie", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		_, err := env.service.UpdateMovie(ctx, staff, movie.ID, MovieInput{Title: "Renamed"})
		require.NoError(t, err)
	})

	t.Run("non-author edit is denied and the record is untouched", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		_, err := env.service.UpdateMovie(ctx, stranger, movie.ID, MovieInput{Title: "Hijacked"})
		require.ErrorIs(t, err, ErrPermissionDenied)

		kept, err := env.service.GetMovie(ctx, movie.ID)
		require.NoError(t, err)
		require.Equal(t, "Test Movie", kept.Title)
	})

	t.Run("out-of-range rating is rejected on edit", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		_, err := env.service.UpdateMovie(ctx, author, movie.ID, MovieInput{Title: "Test Movie", Rating: 10.5})

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "rating")
	})

	t.Run("replacing the poster drops the old blob", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")
		oldKey := movie.PosterKey

		updated, err := env.service.UpdateMovie(ctx, author, movie.ID, MovieInput{
			Title:  "Test Movie",
			Poster: pngUpload("replacement.png"),
		})

		require.NoError(t, err)
		require.NotEqual(t, oldKey, updated.PosterKey)
		require.True(t, env.storage.objects[updated.PosterKey])
		require.Contains(t, env.storage.deleted, oldKey)
	})

	t.Run("missing movie is not found", func(t *testing.T) {
		env := newMovieTestEnv()
		_, err := env.service.UpdateMovie(ctx, author, 999, MovieInput{Title: "Ghost"})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDeleteMovie(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "author"}
	stranger := &models.User{ID: 3, Username: "stranger"}

	t.Run("author delete removes record and poster blob", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		require.NoError(t, env.service.DeleteMovie(ctx, author, movie.ID))

		_, err := env.service.GetMovie(ctx, movie.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
		require.Contains(t, env.storage.deleted, movie.PosterKey)
	})

	t.Run("non-author delete is denied and the record survives", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")

		err := env.service.DeleteMovie(ctx, stranger, movie.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)

		_, err = env.service.GetMovie(ctx, movie.ID)
		require.NoError(t, err)
		require.True(t, env.storage.objects[movie.PosterKey])
	})

	t.Run("blob store failure does not undo the record deletion", func(t *testing.T) {
		env := newMovieTestEnv()
		movie := env.seedMovie(t, author, "Test Movie")
		env.storage.failDelete = true

		require.NoError(t, env.service.DeleteMovie(ctx, author, movie.ID))

		_, err := env.service.GetMovie(ctx, movie.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("missing movie is not found", func(t *testing.T) {
		env := newMovieTestEnv()
		err := env.service.DeleteMovie(ctx, author, 999)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListMovies(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "author"}

	seed := func(env *movieTestEnv, count int) {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < count; i++ {
			movie := &models.Movie{
				Title:     "Movie " + string(rune('A'+i%26)),
				AuthorID:  &author.ID,
				CreatedAt: base.Add(time.Duration(i) * time.Hour),
			}
			require.NoError(t, env.movies.Create(ctx, movie))
		}
	}

	t.Run("pages are sized and counted", func(t *testing.T) {
		env := newMovieTestEnv()
		seed(env, 25)

		page, err := env.service.ListMovies(ctx, query.Parse(nil))
		require.NoError(t, err)
		require.Equal(t, 1, page.Page)
		require.Equal(t, 3, page.TotalPages)
		require.True(t, page.HasOtherPages)
		require.Len(t, page.Items, 12)
	})

	t.Run("page past the end clamps to the last page", func(t *testing.T) {
		env := newMovieTestEnv()
		seed(env, 25)

		p := query.Parse(nil)
		p.Page = 99

		page, err := env.service.ListMovies(ctx, p)
		require.NoError(t, err)
		require.Equal(t, 3, page.Page)
		require.Len(t, page.Items, 1)
	})

	t.Run("no matches is an empty page, not an error", func(t *testing.T) {
		env := newMovieTestEnv()
		seed(env, 5)

		p := query.Parse(nil)
		p.Tokens = []string{"zzzznomatch"}

		page, err := env.service.ListMovies(ctx, p)
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.Equal(t, 1, page.Page)
		require.Equal(t, 1, page.TotalPages)
		require.False(t, page.HasOtherPages)
	})

	t.Run("search matches title or description, all tokens required", func(t *testing.T) {
		env := newMovieTestEnv()
		require.NoError(t, env.movies.Create(ctx, &models.Movie{Title: "The Dark Knight", Description: "Gotham crime saga"}))
		require.NoError(t, env.movies.Create(ctx, &models.Movie{Title: "Alien", Description: "A dark ship in deep space"}))
		require.NoError(t, env.movies.Create(ctx, &models.Movie{Title: "Toy Story", Description: "Friendly toys"}))

		p := query.Parse(nil)
		p.Tokens = []string{"dark"}
		page, err := env.service.ListMovies(ctx, p)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)

		p.Tokens = []string{"dark", "knight"}
		page, err = env.service.ListMovies(ctx, p)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, "The Dark Knight", page.Items[0].Title)
	})

	t.Run("default order is newest first", func(t *testing.T) {
		env := newMovieTestEnv()
		seed(env, 3)

		page, err := env.service.ListMovies(ctx, query.Parse(nil))
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		require.True(t, page.Items[0].CreatedAt.After(page.Items[2].CreatedAt))
	})
}

func TestFilterMovies(t *testing.T) {
	ctx := context.Background()

	env := newMovieTestEnv()
	for i := 0; i < 15; i++ {
		require.NoError(t, env.movies.Create(ctx, &models.Movie{Title: "Bulk Movie"}))
	}

	// The fragment endpoint returns every match, no pagination.
	items, err := env.service.FilterMovies(ctx, query.Parse(nil))
	require.NoError(t, err)
	require.Len(t, items, 15)
}

func TestListMoviesRepoFailure(t *testing.T) {
	env := newMovieTestEnv()
	svc := NewMovieService(failingMovieRepo{}, env.categories, env.genres, env.storage,
		&config.Config{App: config.AppConfig{PageSize: 12}}, testLogger())

	_, err := svc.ListMovies(context.Background(), query.Parse(nil))
	require.Error(t, err)
}

type failingMovieRepo struct{}

var errRepoDown = errors.New("database unavailable")

func (failingMovieRepo) Create(context.Context, *models.Movie) error  { return errRepoDown }
func (failingMovieRepo) Update(context.Context, *models.Movie) error  { return errRepoDown }
func (failingMovieRepo) Delete(context.Context, uint) error           { return errRepoDown }
func (failingMovieRepo) FindByID(context.Context, uint) (*models.Movie, error) {
	return nil, errRepoDown
}
func (failingMovieRepo) FindByAuthor(context.Context, uint) ([]models.Movie, error) {
	return nil, errRepoDown
}
func (failingMovieRepo) Count(context.Context, query.Params) (int64, error) { return 0, errRepoDown }
func (failingMovieRepo) List(context.Context, query.Params, int, int) ([]models.Movie, error) {
	return nil, errRepoDown
}
func (failingMovieRepo) TopRated(context.Context, int) ([]models.Movie, error) {
	return nil, errRepoDown
}
func (failingMovieRepo) ReplaceGenres(context.Context, *models.Movie, []models.Genre) error {
	return errRepoDown
}
