package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"filmroom-backend/internal/models"
	"filmroom-backend/internal/query"
	"filmroom-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeMovieRepo applies the filter stages in memory so the service tests
// exercise the pipeline semantics without a database.
type fakeMovieRepo struct {
	movies map[uint]*models.Movie
	genres map[uint][]uint // movie id -> genre ids
	nextID uint
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{
		movies: map[uint]*models.Movie{},
		genres: map[uint][]uint{},
		nextID: 1,
	}
}

func (r *fakeMovieRepo) Create(_ context.Context, movie *models.Movie) error {
	movie.ID = r.nextID
	r.nextID++
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now()
	}
	clone := *movie
	r.movies[movie.ID] = &clone
	return nil
}

func (r *fakeMovieRepo) Update(_ context.Context, movie *models.Movie) error {
	if _, ok := r.movies[movie.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *movie
	r.movies[movie.ID] = &clone
	return nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.movies, id)
	delete(r.genres, id)
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id uint) (*models.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *movie
	return &clone, nil
}

func (r *fakeMovieRepo) FindByAuthor(_ context.Context, authorID uint) ([]models.Movie, error) {
	var out []models.Movie
	for _, m := range r.movies {
		if m.AuthorID != nil && *m.AuthorID == authorID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMovieRepo) matches(m *models.Movie, p query.Params) bool {
	for _, token := range p.Tokens {
		needle := strings.ToLower(token)
		if !strings.Contains(strings.ToLower(m.Title), needle) &&
			!strings.Contains(strings.ToLower(m.Description), needle) {
			return false
		}
	}
	if p.CategoryID != 0 {
		if m.CategoryID == nil || *m.CategoryID != p.CategoryID {
			return false
		}
	}
	if len(p.GenreIDs) > 0 {
		found := false
		for _, want := range p.GenreIDs {
			for _, have := range r.genres[m.ID] {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeMovieRepo) filtered(p query.Params) []models.Movie {
	var out []models.Movie
	for _, m := range r.movies {
		if r.matches(m, p) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch p.Sort {
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "title":
			return a.Title < b.Title
		case "-title":
			return a.Title > b.Title
		case "rating":
			return a.Rating < b.Rating
		case "-rating":
			return a.Rating > b.Rating
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out
}

func (r *fakeMovieRepo) Count(_ context.Context, p query.Params) (int64, error) {
	return int64(len(r.filtered(p))), nil
}

func (r *fakeMovieRepo) List(_ context.Context, p query.Params, offset, limit int) ([]models.Movie, error) {
	all := r.filtered(p)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeMovieRepo) TopRated(_ context.Context, limit int) ([]models.Movie, error) {
	return r.List(context.Background(), query.Params{Sort: "-rating"}, 0, limit)
}

func (r *fakeMovieRepo) ReplaceGenres(_ context.Context, movie *models.Movie, genres []models.Genre) error {
	ids := make([]uint, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	r.genres[movie.ID] = ids
	return nil
}

type fakeCategoryRepo struct {
	categories map[uint]models.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.categories[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uint) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.categories, id)
	return nil
}

type fakeGenreRepo struct {
	genres map[uint]models.Genre
}

func (r *fakeGenreRepo) Create(_ context.Context, g *models.Genre) error {
	r.genres[g.ID] = *g
	return nil
}

func (r *fakeGenreRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Genre, error) {
	var out []models.Genre
	for _, id := range ids {
		if g, ok := r.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGenreRepo) FindAll(_ context.Context) ([]models.Genre, error) {
	var out []models.Genre
	for _, g := range r.genres {
		out = append(out, g)
	}
	return out, nil
}

// fakeStorage records uploads and deletions; failDelete simulates a blob
// store outage.
type fakeStorage struct {
	objects    map[string]bool
	deleted    []string
	failDelete bool
	nextID     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]bool{}}
}

func (s *fakeStorage) Upload(_ context.Context, prefix, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	s.nextID++
	key := fmt.Sprintf("%s/%d_%s", prefix, s.nextID, filename)
	s.objects[key] = true
	return key, nil
}

func (s *fakeStorage) Delete(_ context.Context, objectKey string) error {
	if s.failDelete {
		return errors.New("blob store unavailable")
	}
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStorage) PublicURL(objectKey string) string {
	return "http://storage.test/" + objectKey
}

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeProfileRepo counts creations so tests can pin down the
// exactly-once provisioning behavior.
type fakeProfileRepo struct {
	profiles map[uint]*models.UserProfile
	created  int
	nextID   uint
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uint]*models.UserProfile{}, nextID: 1}
}

func (r *fakeProfileRepo) GetOrCreate(_ context.Context, userID uint) (*models.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		clone := *p
		return &clone, nil
	}
	p := &models.UserProfile{ID: r.nextID, UserID: userID}
	r.nextID++
	r.created++
	r.profiles[userID] = p
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.UserProfile) error {
	if _, ok := r.profiles[profile.UserID]; !ok {
		return repository.ErrNotFound
	}
	clone := *profile
	r.profiles[profile.UserID] = &clone
	return nil
}

type fakeSessionStore struct {
	sessions map[string]uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]uint{}}
}

func (s *fakeSessionStore) StoreRefresh(_ context.Context, userID uint, tokenHash string, _ time.Time) error {
	s.sessions[tokenHash] = userID
	return nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, tokenHash string) error {
	if _, ok := s.sessions[tokenHash]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (s *fakeSessionStore) Lookup(_ context.Context, tokenHash string) (uint, error) {
	id, ok := s.sessions[tokenHash]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return id, nil
}
