package movies

import (
	"context"
	"errors"
	"log/slog"
	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

type MoviesStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Insert(ctx context.Context, title, description string, userID int64) (*models.Movie, error)
	List(ctx context.Context, title string, filters filters.Filters) ([]models.Movie, int, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}

type MovieService struct {
	log     *slog.Logger
	storage MoviesStorage
}

func New(log *slog.Logger, storage MoviesStorage) *MovieService {
	return &MovieService{
		log:     log,
		storage: storage,
	}
}

func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, user *models.User, title, description string) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", title, "user_id", user.ID)
	movie, err := s.storage.Insert(ctx, title, description, user.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, title string, f filters.Filters) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op)
	movies, totalRecords, err := s.storage.List(ctx, title, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return movies, filters.NewMetadata(totalRecords, f.Page, f.PageSize), nil
}

// Update applies a partial update. Empty title or description means "leave
// unchanged". Only the owning user may update a movie.
func (s *MovieService) Update(ctx context.Context, user *models.User, id int64, title, description string) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id, "user_id", user.ID)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie.UserID != user.ID {
		log.Info("update rejected, not the owner", "owner_id", movie.UserID)
		return nil, ErrNotOwner
	}
	if title != "" {
		movie.Title = title
	}
	if description != "" {
		movie.Description = description
	}
	updatedMovie, err := s.storage.Update(ctx, movie)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error("Error updating movie: " + err.Error())
		return nil, err
	}
	return updatedMovie, nil
}

func (s *MovieService) Delete(ctx context.Context, user *models.User, id int64) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id, "user_id", user.ID)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if movie.UserID != user.ID {
		log.Info("delete rejected, not the owner", "owner_id", movie.UserID)
		return ErrNotOwner
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
