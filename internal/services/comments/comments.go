package comments

import (
	"context"
	"errors"
	"log/slog"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

type CommentsStorage interface {
	Insert(ctx context.Context, movieID, userID int64, text string, parentID *int64) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	ListForMovie(ctx context.Context, movieID int64) ([]models.Comment, error)
}

type MoviesProvider interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
}

type CommentService struct {
	log     *slog.Logger
	storage CommentsStorage
	movies  MoviesProvider
}

func New(log *slog.Logger, storage CommentsStorage, movies MoviesProvider) *CommentService {
	return &CommentService{
		log:     log,
		storage: storage,
		movies:  movies,
	}
}

// Add posts a comment on a movie, optionally as a reply to parentID. A
// parent must exist and belong to the same movie.
func (s *CommentService) Add(ctx context.Context, user *models.User, movieID int64, text string, parentID *int64) (*models.Comment, error) {
	const op = "comments.CommentService.Add"
	log := s.log.With("op", op, "movie_id", movieID, "user_id", user.ID)
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if parentID != nil {
		parent, err := s.storage.Get(ctx, *parentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Info("parent comment not found", "parent_id", *parentID)
				return nil, ErrCommentNotFound
			}
			log.Error(err.Error())
			return nil, err
		}
		if parent.MovieID != movieID {
			log.Info("parent comment belongs to another movie", "parent_id", *parentID, "parent_movie_id", parent.MovieID)
			return nil, ErrParentMismatch
		}
	}
	comment, err := s.storage.Insert(ctx, movieID, user.ID, text, parentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The movie or the parent was deleted between the checks above
			// and the insert.
			log.Info("referenced row vanished before insert")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

// ListForMovie returns the movie's comments as a forest: top-level comments
// in posting order, replies nested under their parents.
func (s *CommentService) ListForMovie(ctx context.Context, movieID int64) ([]*models.Comment, error) {
	const op = "comments.CommentService.ListForMovie"
	log := s.log.With("op", op, "movie_id", movieID)
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	comments, err := s.storage.ListForMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return buildTree(comments), nil
}

// buildTree links flat rows into a forest in a single pass. Rows arrive
// ordered by id and a parent is always created before its replies, so every
// parent is already in the index when a reply shows up.
func buildTree(comments []models.Comment) []*models.Comment {
	roots := make([]*models.Comment, 0, len(comments))
	byID := make(map[int64]*models.Comment, len(comments))
	for i := range comments {
		c := &comments[i]
		byID[c.ID] = c
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
