package ratings

import (
	"context"
	"errors"
	"log/slog"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

const (
	MinRating = 1
	MaxRating = 5
)

type RatingsStorage interface {
	Upsert(ctx context.Context, movieID, userID int64, value int32) (*models.Rating, error)
	ListForMovie(ctx context.Context, movieID int64) ([]models.Rating, error)
}

type MoviesProvider interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
}

type RatingService struct {
	log     *slog.Logger
	storage RatingsStorage
	movies  MoviesProvider
}

func New(log *slog.Logger, storage RatingsStorage, movies MoviesProvider) *RatingService {
	return &RatingService{
		log:     log,
		storage: storage,
		movies:  movies,
	}
}

// Rate stores the user's rating for a movie. A repeated rating from the same
// user replaces the previous one instead of adding a second row.
func (s *RatingService) Rate(ctx context.Context, user *models.User, movieID int64, value int32) (*models.Rating, error) {
	const op = "ratings.RatingService.Rate"
	log := s.log.With("op", op, "movie_id", movieID, "user_id", user.ID, "value", value)
	if value < MinRating || value > MaxRating {
		log.Info("rating out of range")
		return nil, ErrInvalidRating
	}
	rating, err := s.storage.Upsert(ctx, movieID, user.ID, value)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) ListForMovie(ctx context.Context, movieID int64) ([]models.Rating, models.RatingsSummary, error) {
	const op = "ratings.RatingService.ListForMovie"
	log := s.log.With("op", op, "movie_id", movieID)
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, models.RatingsSummary{}, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, models.RatingsSummary{}, err
	}
	ratings, err := s.storage.ListForMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, models.RatingsSummary{}, err
	}
	return ratings, summarize(ratings), nil
}

func summarize(ratings []models.Rating) models.RatingsSummary {
	if len(ratings) == 0 {
		return models.RatingsSummary{}
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r.Value)
	}
	return models.RatingsSummary{
		Average: float64(sum) / float64(len(ratings)),
		Count:   len(ratings),
	}
}
