package ratings

import "errors"

var (
	ErrInvalidRating = errors.New("rating value must be between 1 and 5")
	ErrMovieNotFound = errors.New("movie not found")
)
