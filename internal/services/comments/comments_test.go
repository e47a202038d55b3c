package comments

import (
	"context"
	"log/slog"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommentsStorage struct {
	movies   map[int64]*models.Movie
	comments map[int64]*models.Comment
	seq      int64
}

func newFakeCommentsStorage(movieIDs ...int64) *fakeCommentsStorage {
	movies := make(map[int64]*models.Movie)
	for _, id := range movieIDs {
		movies[id] = &models.Movie{ID: id, Title: "Movie"}
	}
	return &fakeCommentsStorage{movies: movies, comments: make(map[int64]*models.Comment)}
}

func (s *fakeCommentsStorage) Get(_ context.Context, id int64) (*models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s *fakeCommentsStorage) GetMovie(_ context.Context, id int64) (*models.Movie, error) {
	movie, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return movie, nil
}

func (s *fakeCommentsStorage) Insert(_ context.Context, movieID, userID int64, text string, parentID *int64) (*models.Comment, error) {
	if _, ok := s.movies[movieID]; !ok {
		return nil, storage.ErrNotFound
	}
	s.seq++
	comment := &models.Comment{
		ID:        s.seq,
		MovieID:   movieID,
		UserID:    userID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.comments[comment.ID] = comment
	copied := *comment
	return &copied, nil
}

func (s *fakeCommentsStorage) ListForMovie(_ context.Context, movieID int64) ([]models.Comment, error) {
	out := []models.Comment{}
	for id := int64(1); id <= s.seq; id++ {
		if c, ok := s.comments[id]; ok && c.MovieID == movieID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// moviesAdapter exposes the fake's movie lookup under the MoviesProvider
// method name, which clashes with CommentsStorage.Get on the same struct.
type moviesAdapter struct {
	fake *fakeCommentsStorage
}

func (a moviesAdapter) Get(ctx context.Context, id int64) (*models.Movie, error) {
	return a.fake.GetMovie(ctx, id)
}

var commenter = &models.User{ID: 1, Username: "commenter"}

func newTestService(movieIDs ...int64) (*CommentService, *fakeCommentsStorage) {
	fake := newFakeCommentsStorage(movieIDs...)
	return New(slog.Default(), fake, moviesAdapter{fake}), fake
}

func TestAddToMissingMovie(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Add(context.Background(), commenter, 42, "first!", nil)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestAddWithMissingParent(t *testing.T) {
	svc, _ := newTestService(1)
	parentID := int64(99)
	_, err := svc.Add(context.Background(), commenter, 1, "reply", &parentID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestAddWithParentFromAnotherMovie(t *testing.T) {
	svc, _ := newTestService(1, 2)
	ctx := context.Background()
	parent, err := svc.Add(ctx, commenter, 1, "on movie one", nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, commenter, 2, "reply on movie two", &parent.ID)
	assert.ErrorIs(t, err, ErrParentMismatch)
}

func TestListBuildsNestedTree(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()

	root1, err := svc.Add(ctx, commenter, 1, "root one", nil)
	require.NoError(t, err)
	root2, err := svc.Add(ctx, commenter, 1, "root two", nil)
	require.NoError(t, err)
	reply, err := svc.Add(ctx, commenter, 1, "reply to one", &root1.ID)
	require.NoError(t, err)
	nested, err := svc.Add(ctx, commenter, 1, "reply to reply", &reply.ID)
	require.NoError(t, err)

	tree, err := svc.ListForMovie(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, root1.ID, tree[0].ID)
	assert.Equal(t, root2.ID, tree[1].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, nested.ID, tree[0].Replies[0].Replies[0].ID)
	assert.Empty(t, tree[1].Replies)
}

func TestListForMissingMovie(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ListForMovie(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}
