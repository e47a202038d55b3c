package movies

import (
	"context"
	"log/slog"
	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMoviesStorage struct {
	movies map[int64]*models.Movie
	seq    int64
}

func newFakeMoviesStorage() *fakeMoviesStorage {
	return &fakeMoviesStorage{movies: make(map[int64]*models.Movie)}
}

func (s *fakeMoviesStorage) Get(_ context.Context, id int64) (*models.Movie, error) {
	movie, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *movie
	return &copied, nil
}

func (s *fakeMoviesStorage) Insert(_ context.Context, title, description string, userID int64) (*models.Movie, error) {
	s.seq++
	movie := &models.Movie{
		ID:          s.seq,
		Title:       title,
		Description: description,
		UserID:      userID,
		Version:     1,
		CreatedAt:   time.Now(),
	}
	s.movies[movie.ID] = movie
	copied := *movie
	return &copied, nil
}

func (s *fakeMoviesStorage) List(_ context.Context, title string, f filters.Filters) ([]models.Movie, int, error) {
	out := make([]models.Movie, 0, len(s.movies))
	for id := int64(1); id <= s.seq; id++ {
		if movie, ok := s.movies[id]; ok {
			out = append(out, *movie)
		}
	}
	total := len(out)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit()
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (s *fakeMoviesStorage) Update(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	stored, ok := s.movies[movie.ID]
	if !ok || stored.Version != movie.Version {
		return nil, storage.ErrNotFound
	}
	updated := *movie
	updated.Version++
	s.movies[movie.ID] = &updated
	copied := updated
	return &copied, nil
}

func (s *fakeMoviesStorage) Delete(_ context.Context, id int64) error {
	if _, ok := s.movies[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.movies, id)
	return nil
}

var (
	owner    = &models.User{ID: 1, Username: "owner"}
	stranger = &models.User{ID: 2, Username: "stranger"}
)

func newTestService() (*MovieService, *fakeMoviesStorage) {
	fake := newFakeMoviesStorage()
	return New(slog.Default(), fake), fake
}

func TestGetMissingMovie(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestUpdateOwnershipCheck(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	movie, err := svc.Create(ctx, owner, "Alien", "In space no one can hear you scream.")
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, movie.ID, "Aliens", "")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, owner, movie.ID, "Aliens", "")
	require.NoError(t, err)
	assert.Equal(t, "Aliens", updated.Title)
	// Untouched fields keep their values on partial updates.
	assert.Equal(t, "In space no one can hear you scream.", updated.Description)
	assert.Equal(t, movie.Version+1, updated.Version)
}

func TestDeleteOwnershipCheck(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	movie, err := svc.Create(ctx, owner, "Alien", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, stranger, movie.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	listed, _, err := svc.List(ctx, "", filters.Filters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, svc.Delete(ctx, owner, movie.ID))
	err = svc.Delete(ctx, owner, movie.ID)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestUpdateMissingMovie(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), owner, 42, "Title", "")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, owner, "Movie", "")
		require.NoError(t, err)
	}
	listed, metadata, err := svc.List(ctx, "", filters.Filters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 5, metadata.TotalRecords)
	assert.Equal(t, 3, metadata.LastPage)
	assert.Equal(t, 2, metadata.CurrentPage)
}
